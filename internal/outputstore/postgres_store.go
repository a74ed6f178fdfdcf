package outputstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"stepstore/internal/codec"
)

// PostgresStore persists encoded output values as BYTEA rows keyed by
// (run_id, step_key, output_name). Writes upsert, so re-execution of the
// same run output replaces its prior attempt. Not surfaced to any catalog.
type PostgresStore struct {
	db         *sql.DB
	codec      codec.Codec
	schemaOnce sync.Once
	schemaErr  error
}

// OpenPostgres opens a database handle with the pgx stdlib driver and
// verifies connectivity.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func NewPostgresStore(db *sql.DB, c codec.Codec) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if c == nil {
		return nil, fmt.Errorf("codec is required")
	}
	return &PostgresStore{db: db, codec: c}, nil
}

func (s *PostgresStore) ensureSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS step_outputs (
    id SERIAL PRIMARY KEY,
    run_id TEXT NOT NULL,
    step_key TEXT NOT NULL,
    output_name TEXT NOT NULL,
    content BYTEA NOT NULL DEFAULT ''::bytea,
    size BIGINT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    UNIQUE(run_id, step_key, output_name)
);
CREATE INDEX IF NOT EXISTS idx_step_outputs_run_id ON step_outputs(run_id);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Write(ctx context.Context, sc StoreContext, value any) (*Materialization, error) {
	if s == nil {
		return nil, fmt.Errorf("postgres store is nil")
	}
	if sc.SourceRunID == "" {
		return nil, fmt.Errorf("%w: source run id is required for run-scoped keys", ErrConfig)
	}
	raw, err := s.codec.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", sc.Identity(), err)
	}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO step_outputs (run_id, step_key, output_name, content, size, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (run_id, step_key, output_name)
DO UPDATE SET content=EXCLUDED.content, size=EXCLUDED.size, updated_at=EXCLUDED.updated_at
`, sc.SourceRunID, sc.StepKey, sc.OutputName, raw, int64(len(raw)), time.Now())
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", sc.Identity(), err)
	}
	return nil, nil
}

func (s *PostgresStore) Read(ctx context.Context, sc StoreContext) (any, error) {
	if s == nil {
		return nil, fmt.Errorf("postgres store is nil")
	}
	if sc.SourceRunID == "" {
		return nil, fmt.Errorf("%w: source run id is required for run-scoped keys", ErrConfig)
	}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM step_outputs WHERE run_id=$1 AND step_key=$2 AND output_name=$3`,
		sc.SourceRunID, sc.StepKey, sc.OutputName,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read %s: %w", sc.Identity(), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sc.Identity(), err)
	}
	v, err := s.codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("read %s: %v: %w", sc.Identity(), err, ErrDecode)
	}
	return v, nil
}
