package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docdiff/internal/domain"
)

// MockComparisonRepo is a mock implementation of port.ComparisonRepository.
type MockComparisonRepo struct {
	mock.Mock
}

func (m *MockComparisonRepo) Create(ctx context.Context, comp *domain.Comparison) error {
	args := m.Called(ctx, comp)
	return args.Error(0)
}

func (m *MockComparisonRepo) GetByID(ctx context.Context, compID uuid.UUID) (*domain.Comparison, error) {
	args := m.Called(ctx, compID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comparison), args.Error(1)
}

func (m *MockComparisonRepo) List(ctx context.Context, offset, limit int) ([]domain.Comparison, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Comparison), args.Int(1), args.Error(2)
}

func (m *MockComparisonRepo) UpdateStatus(ctx context.Context, compID uuid.UUID, status domain.CompareStatus, compErr string) error {
	args := m.Called(ctx, compID, status, compErr)
	return args.Error(0)
}

func (m *MockComparisonRepo) SaveResult(ctx context.Context, comp *domain.Comparison) error {
	args := m.Called(ctx, comp)
	return args.Error(0)
}
