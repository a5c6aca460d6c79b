package port

import (
	"context"

	"github.com/google/uuid"

	"docdiff/internal/domain"
)

// DocumentRepository defines the contract for document persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, offset, limit int) ([]domain.Document, int, error)
	UpdateOCRStatus(ctx context.Context, docID uuid.UUID, status domain.OCRStatus, ocrError string) error
	SaveOCRResult(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, docID uuid.UUID) error
}

// ComparisonRepository defines the contract for comparison persistence.
type ComparisonRepository interface {
	Create(ctx context.Context, comp *domain.Comparison) error
	GetByID(ctx context.Context, compID uuid.UUID) (*domain.Comparison, error)
	List(ctx context.Context, offset, limit int) ([]domain.Comparison, int, error)
	UpdateStatus(ctx context.Context, compID uuid.UUID, status domain.CompareStatus, compErr string) error
	SaveResult(ctx context.Context, comp *domain.Comparison) error
}

// APIKeyRepository defines the contract for API key persistence.
type APIKeyRepository interface {
	Create(ctx context.Context, key *domain.APIKey) error
	GetByKey(ctx context.Context, key string) (*domain.APIKey, error)
	IncrementUsage(ctx context.Context, keyID uuid.UUID) error
}
