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

type apiKeyRepo struct {
	db *sqlx.DB
}

// NewAPIKeyRepo creates a new PostgreSQL-backed APIKeyRepository.
func NewAPIKeyRepo(db *sqlx.DB) port.APIKeyRepository {
	return &apiKeyRepo{db: db}
}

func (r *apiKeyRepo) Create(ctx context.Context, key *domain.APIKey) error {
	key.CreatedAt = time.Now().UTC()

	query := `INSERT INTO api_keys (id, key, label, scopes, usage_count, active, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		key.ID, key.Key, key.Label, key.Scopes, key.UsageCount, key.Active,
		key.ExpiresAt, key.CreatedAt)
	if err != nil {
		return fmt.Errorf("apiKeyRepo.Create: %w", err)
	}
	return nil
}

func (r *apiKeyRepo) GetByKey(ctx context.Context, key string) (*domain.APIKey, error) {
	var k domain.APIKey
	err := r.db.GetContext(ctx, &k, "SELECT * FROM api_keys WHERE key = $1", key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("apiKeyRepo.GetByKey: %w", err)
	}
	return &k, nil
}

func (r *apiKeyRepo) IncrementUsage(ctx context.Context, keyID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE api_keys SET usage_count = usage_count + 1 WHERE id = $1", keyID)
	if err != nil {
		return fmt.Errorf("apiKeyRepo.IncrementUsage: %w", err)
	}
	return nil
}
