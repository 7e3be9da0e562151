package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"epd-map-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Schema creates the raw catalog table. Pages are stored as delivered, one
// JSONB object per record, so arrival order is the id order.
const Schema = `
	CREATE TABLE IF NOT EXISTS catalog_records (
		id BIGSERIAL PRIMARY KEY,
		catalog VARCHAR(32) NOT NULL,
		payload JSONB NOT NULL,
		imported_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS catalog_records_catalog_idx ON catalog_records (catalog, id);
`

// Repository implements the catalog repository interface for PostgreSQL
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the catalog table and its index if they do not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// ListGeneralRecords returns the general catalog records in arrival order
func (r *Repository) ListGeneralRecords(ctx context.Context) ([]models.RawGeneralRecord, error) {
	return listRecords[models.RawGeneralRecord](ctx, r.db, models.CatalogGeneral)
}

// ListDeclarationRecords returns the declaration catalog records in arrival order
func (r *Repository) ListDeclarationRecords(ctx context.Context) ([]models.RawDeclarationRecord, error) {
	return listRecords[models.RawDeclarationRecord](ctx, r.db, models.CatalogDeclaration)
}

// InsertRecords bulk-loads raw JSON objects for one catalog
func (r *Repository) InsertRecords(ctx context.Context, catalog models.Catalog, payloads []json.RawMessage) (int64, error) {
	n, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"catalog_records"},
		[]string{"catalog", "payload"},
		pgx.CopyFromSlice(len(payloads), func(i int) ([]any, error) {
			return []any{string(catalog), []byte(payloads[i])}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to copy %s records: %w", catalog, err)
	}
	return n, nil
}

// CountRecords returns the number of stored records for one catalog
func (r *Repository) CountRecords(ctx context.Context, catalog models.Catalog) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM catalog_records WHERE catalog = $1", string(catalog)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to count %s records: %w", catalog, err)
	}
	return count, nil
}

func listRecords[T any](ctx context.Context, db *pgxpool.Pool, catalog models.Catalog) ([]T, error) {
	sql := `
		SELECT id, payload
		FROM catalog_records
		WHERE catalog = $1
		ORDER BY id
	`

	rows, err := db.Query(ctx, sql, string(catalog))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute %s query: %w", catalog, err)
	}
	defer rows.Close()

	records := []T{}
	for rows.Next() {
		var (
			id      int64
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("repository: failed to scan %s record: %w", catalog, err)
		}

		var rec T
		if err := json.Unmarshal(payload, &rec); err != nil {
			// not an object; upstream noise, not a failure of the listing
			log.Warn().Err(err).Int64("id", id).Str("catalog", string(catalog)).Msg("skipping undecodable record")
			continue
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating %s rows: %w", catalog, err)
	}

	return records, nil
}
