package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docdiff/internal/domain"
	"docdiff/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.UploadedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO documents
		(id, filename, s3_bucket, s3_key, sha256, content_type, file_size,
		 ocr_status, ocr_error, paragraphs, text_payload, page_count, uploaded_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Filename, doc.S3Bucket, doc.S3Key, doc.SHA256, doc.ContentType,
		doc.FileSize, doc.OCRStatus, doc.OCRError, doc.Paragraphs, doc.TextPayload,
		doc.PageCount, doc.UploadedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, offset, limit int) ([]domain.Document, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM documents"); err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List count: %w", err)
	}

	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		"SELECT * FROM documents ORDER BY uploaded_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepo) UpdateOCRStatus(ctx context.Context, docID uuid.UUID, status domain.OCRStatus, ocrError string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET ocr_status = $1, ocr_error = $2, updated_at = $3 WHERE id = $4",
		status, ocrError, time.Now().UTC(), docID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateOCRStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the document row. Comparisons referencing it cascade.
func (r *documentRepo) Delete(ctx context.Context, docID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", docID)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveOCRResult persists a successful OCR run: status, paragraph index, text
// payload and page count in one write.
func (r *documentRepo) SaveOCRResult(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE documents
		 SET ocr_status = $1, ocr_error = $2, paragraphs = $3, text_payload = $4,
		     page_count = $5, updated_at = $6
		 WHERE id = $7`,
		doc.OCRStatus, doc.OCRError, doc.Paragraphs, doc.TextPayload,
		doc.PageCount, doc.UpdatedAt, doc.ID)
	if err != nil {
		return fmt.Errorf("documentRepo.SaveOCRResult: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
