// Package postgres persists analysis snapshots and their history.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/echohtp/poolboyz/internal/cache"
)

const (
	upsertSnapshotSQL = `
		INSERT INTO analysis_snapshots (query_type, identifier, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (query_type, identifier)
		DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at`

	getSnapshotSQL = `
		SELECT payload, created_at, updated_at
		FROM analysis_snapshots
		WHERE query_type = $1 AND identifier = $2`

	appendHistorySQL = `
		INSERT INTO analysis_history (identifier, payload, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (identifier, created_at) DO NOTHING`

	listHistorySQL = `
		SELECT payload, created_at
		FROM analysis_history
		WHERE identifier = $1
		ORDER BY created_at DESC
		LIMIT $2`

	createSchemaSQL = `
		CREATE TABLE IF NOT EXISTS analysis_snapshots (
			query_type text NOT NULL,
			identifier text NOT NULL,
			payload jsonb NOT NULL,
			created_at bigint NOT NULL,
			updated_at bigint NOT NULL,
			PRIMARY KEY (query_type, identifier)
		);
		CREATE TABLE IF NOT EXISTS analysis_history (
			identifier text NOT NULL,
			payload jsonb NOT NULL,
			created_at bigint NOT NULL,
			PRIMARY KEY (identifier, created_at)
		)`
)

// HistoryRow is one archived analysis for an identifier.
type HistoryRow struct {
	Payload   json.RawMessage `json:"payload"`
	CreatedAt int64           `json:"created_at"`
}

// Store provides Postgres persistence for analysis snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the snapshot tables when they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, createSchemaSQL)
	return err
}

// GetSnapshot reads the snapshot for a key regardless of freshness.
func (s *Store) GetSnapshot(ctx context.Context, key cache.Key) (cache.Entry, bool, error) {
	var entry cache.Entry
	row := s.pool.QueryRow(ctx, getSnapshotSQL, key.Type, key.ID)
	if err := row.Scan(&entry.Payload, &entry.CreatedAt, &entry.LastUpdated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cache.Entry{}, false, nil
		}
		return cache.Entry{}, false, err
	}
	return entry, true, nil
}

// UpsertSnapshot writes the snapshot for a key and appends a history
// row. Upserts are idempotent on (query_type, identifier).
func (s *Store) UpsertSnapshot(ctx context.Context, key cache.Key, entry cache.Entry) error {
	batch := &pgx.Batch{}
	batch.Queue(upsertSnapshotSQL, key.Type, key.ID, entry.Payload, entry.CreatedAt, entry.LastUpdated)
	batch.Queue(appendHistorySQL, key.String(), entry.Payload, entry.LastUpdated)

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < 2; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListHistory returns archived analyses for an identifier, newest
// first.
func (s *Store) ListHistory(ctx context.Context, identifier string, limit int) ([]HistoryRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, listHistorySQL, identifier, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]HistoryRow, 0, limit)
	for rows.Next() {
		var row HistoryRow
		if err := rows.Scan(&row.Payload, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
