package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docdiff/internal/port"
)

// MockCompareProvider is a mock implementation of port.CompareProvider.
type MockCompareProvider struct {
	mock.Mock
}

func (m *MockCompareProvider) CompareDocuments(ctx context.Context, doc1Payload, doc2Payload string) (*port.CompareOutput, error) {
	args := m.Called(ctx, doc1Payload, doc2Payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.CompareOutput), args.Error(1)
}
