// Command seedkey generates a new API key and inserts it into the database.
// The raw key is printed once; it is not recoverable afterwards.
// Usage: go run ./cmd/seedkey -label ci -scopes read,write
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"docdiff/internal/config"
	"docdiff/internal/domain"
	"docdiff/internal/repository/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	label := flag.String("label", "default", "human-readable label for the key")
	scopes := flag.String("scopes", "read", "comma-separated scopes (read,write,admin)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generating key material: %w", err)
	}

	key := &domain.APIKey{
		ID:     uuid.New(),
		Key:    hex.EncodeToString(raw),
		Label:  *label,
		Scopes: *scopes,
		Active: true,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	keyRepo := postgres.NewAPIKeyRepo(db)
	if err := keyRepo.Create(ctx, key); err != nil {
		return fmt.Errorf("inserting key: %w", err)
	}

	fmt.Printf("API key created (label=%s scopes=%s):\n%s\n", key.Label, key.Scopes, key.Key)
	return nil
}
