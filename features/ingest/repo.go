package ingest

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresRepo stores one row per ingestion batch.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Save(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO ingestions (id, success, message, documents_processed, chunks_created, vectors_stored, files)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Success,
		rec.Message,
		rec.DocumentsProcessed,
		rec.ChunksCreated,
		rec.VectorsStored,
		pq.Array(rec.Files),
	)
	if err != nil {
		return fmt.Errorf("failed to save ingestion record: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ingestions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ingestion records: %w", err)
	}
	return count, nil
}
