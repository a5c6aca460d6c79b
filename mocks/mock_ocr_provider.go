package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docdiff/internal/port"
)

// MockOCRProvider is a mock implementation of port.OCRProvider.
type MockOCRProvider struct {
	mock.Mock
}

func (m *MockOCRProvider) ProcessDocument(ctx context.Context, raw []byte, mimeType string) ([]port.OCRPage, error) {
	args := m.Called(ctx, raw, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.OCRPage), args.Error(1)
}
