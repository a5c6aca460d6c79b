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

type comparisonRepo struct {
	db *sqlx.DB
}

// NewComparisonRepo creates a new PostgreSQL-backed ComparisonRepository.
func NewComparisonRepo(db *sqlx.DB) port.ComparisonRepository {
	return &comparisonRepo{db: db}
}

func (r *comparisonRepo) Create(ctx context.Context, comp *domain.Comparison) error {
	now := time.Now().UTC()
	comp.CreatedAt = now
	comp.UpdatedAt = now

	query := `INSERT INTO comparisons
		(id, doc_a_id, doc_b_id, status, error, differences, summary,
		 tokens_used, duration_ms, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		comp.ID, comp.DocAID, comp.DocBID, comp.Status, comp.Error,
		comp.Differences, comp.Summary, comp.TokensUsed, comp.DurationMs,
		comp.CreatedAt, comp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("comparisonRepo.Create: %w", err)
	}
	return nil
}

func (r *comparisonRepo) GetByID(ctx context.Context, compID uuid.UUID) (*domain.Comparison, error) {
	var comp domain.Comparison
	err := r.db.GetContext(ctx, &comp, "SELECT * FROM comparisons WHERE id = $1", compID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("comparisonRepo.GetByID: %w", err)
	}
	return &comp, nil
}

func (r *comparisonRepo) List(ctx context.Context, offset, limit int) ([]domain.Comparison, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM comparisons"); err != nil {
		return nil, 0, fmt.Errorf("comparisonRepo.List count: %w", err)
	}

	var comps []domain.Comparison
	err := r.db.SelectContext(ctx, &comps,
		"SELECT * FROM comparisons ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("comparisonRepo.List: %w", err)
	}
	return comps, total, nil
}

func (r *comparisonRepo) UpdateStatus(ctx context.Context, compID uuid.UUID, status domain.CompareStatus, compErr string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE comparisons SET status = $1, error = $2, updated_at = $3 WHERE id = $4",
		status, compErr, time.Now().UTC(), compID)
	if err != nil {
		return fmt.Errorf("comparisonRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveResult persists a successful compare run, replacing any previous
// differences, summary, token usage and duration wholesale.
func (r *comparisonRepo) SaveResult(ctx context.Context, comp *domain.Comparison) error {
	comp.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE comparisons
		 SET status = $1, error = $2, differences = $3, summary = $4,
		     tokens_used = $5, duration_ms = $6, updated_at = $7
		 WHERE id = $8`,
		comp.Status, comp.Error, comp.Differences, comp.Summary,
		comp.TokensUsed, comp.DurationMs, comp.UpdatedAt, comp.ID)
	if err != nil {
		return fmt.Errorf("comparisonRepo.SaveResult: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
