// Package storage archives completed runs in PostgreSQL when a connection
// string is configured. The CSV report stays the source of truth; the
// archive is a convenience for querying history.
package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"urlcheck/internal/domain"
)

// PostgresStore handles interactions with the PostgreSQL database.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// SaveResults upserts one row per record in a single batch.
func (s *PostgresStore) SaveResults(ctx context.Context, results []domain.Result) error {
	batch := &pgx.Batch{}
	for _, r := range results {
		batch.Queue(
			`INSERT INTO url_check_results (url, status, http_code, error_message, error_type, checked_at)
			 VALUES ($1, $2, $3, $4, $5, NOW())
			 ON CONFLICT (url) DO UPDATE SET
			   status = EXCLUDED.status, http_code = EXCLUDED.http_code,
			   error_message = EXCLUDED.error_message, error_type = EXCLUDED.error_type,
			   checked_at = NOW()`,
			r.URL, string(r.Status), r.HTTPCode, r.ErrorMessage, r.ErrorType,
		)
	}
	return s.db.SendBatch(ctx, batch).Close()
}
