package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docdiff/internal/domain"
	"docdiff/internal/service"
)

// MockComparisonService is a mock implementation of service.ComparisonService.
type MockComparisonService struct {
	mock.Mock
}

func (m *MockComparisonService) Create(ctx context.Context, docAID, docBID uuid.UUID) (*domain.Comparison, error) {
	args := m.Called(ctx, docAID, docBID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comparison), args.Error(1)
}

func (m *MockComparisonService) Rerun(ctx context.Context, compID uuid.UUID) error {
	args := m.Called(ctx, compID)
	return args.Error(0)
}

func (m *MockComparisonService) GetByID(ctx context.Context, compID uuid.UUID) (*service.ComparisonDetail, error) {
	args := m.Called(ctx, compID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ComparisonDetail), args.Error(1)
}

func (m *MockComparisonService) List(ctx context.Context, offset, limit int) ([]service.ComparisonSummary, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]service.ComparisonSummary), args.Int(1), args.Error(2)
}

func (m *MockComparisonService) RenderMetadata(ctx context.Context, compID uuid.UUID) (*service.RenderMetadata, error) {
	args := m.Called(ctx, compID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RenderMetadata), args.Error(1)
}

func (m *MockComparisonService) RunCompare(ctx context.Context, compID uuid.UUID) error {
	args := m.Called(ctx, compID)
	return args.Error(0)
}
