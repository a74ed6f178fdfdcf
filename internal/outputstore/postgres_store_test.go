package outputstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"stepstore/internal/codec"
)

func TestNewPostgresStoreValidation(t *testing.T) {
	if _, err := NewPostgresStore(nil, codec.JSONCodec{}); err == nil {
		t.Fatal("expected error for nil db")
	}
}

// Integration coverage against a live database; skipped unless configured.
func TestPostgresStoreRoundTripIntegration(t *testing.T) {
	dsn := os.Getenv("STEPSTORE_PG_DSN")
	if dsn == "" {
		t.Skip("STEPSTORE_PG_DSN not set")
	}
	db, err := OpenPostgres(dsn)
	require.NoError(t, err)
	defer db.Close()

	store, err := NewPostgresStore(db, codec.JSONCodec{})
	require.NoError(t, err)

	ctx := context.Background()
	runID := uuid.NewString()
	sc := testContext(t, StoreContextParams{SourceRunID: runID, StepKey: "a", OutputName: "result"})

	_, err = store.Write(ctx, sc, map[string]any{"n": float64(1)})
	require.NoError(t, err)

	v, err := store.Read(ctx, sc)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"n": float64(1)}, v)

	// Overwrite keeps exactly one readable value.
	_, err = store.Write(ctx, sc, map[string]any{"n": float64(2)})
	require.NoError(t, err)
	v, err = store.Read(ctx, sc)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"n": float64(2)}, v)

	missing := testContext(t, StoreContextParams{SourceRunID: runID, StepKey: "never"})
	_, err = store.Read(ctx, missing)
	require.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestPostgresStoreMissingRunID(t *testing.T) {
	dsn := os.Getenv("STEPSTORE_PG_DSN")
	if dsn == "" {
		t.Skip("STEPSTORE_PG_DSN not set")
	}
	db, err := OpenPostgres(dsn)
	require.NoError(t, err)
	defer db.Close()

	store, err := NewPostgresStore(db, codec.JSONCodec{})
	require.NoError(t, err)

	sc := testContext(t, StoreContextParams{StepKey: "a"})
	_, err = store.Write(context.Background(), sc, 1)
	require.True(t, errors.Is(err, ErrConfig), "expected ErrConfig, got %v", err)
}
