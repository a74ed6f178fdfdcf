package pipeline

import (
	"context"
	"errors"
	"testing"

	"stepstore/internal/codec"
	"stepstore/internal/outputstore"
)

func newVersionedStore(t *testing.T) *outputstore.VersionedFSStore {
	t.Helper()
	store, err := outputstore.NewVersionedFSStore(t.TempDir(), codec.JSONCodec{})
	if err != nil {
		t.Fatalf("new versioned store: %v", err)
	}
	return store
}

func TestExecuteStepMemoizes(t *testing.T) {
	store := newVersionedStore(t)
	ctx := context.Background()
	computes := 0
	spec := StepSpec{
		Key:     "extract",
		Version: "v7",
		Run: func(context.Context) (any, error) {
			computes++
			return "payload", nil
		},
	}

	first, err := ExecuteStep(ctx, store, "demo", "r1", spec)
	if err != nil {
		t.Fatalf("first execute: %v", err)
	}
	if first.Cached || first.Value != "payload" {
		t.Fatalf("unexpected first result: %+v", first)
	}

	// Run identity differs; the version hit skips compute anyway.
	second, err := ExecuteStep(ctx, store, "demo", "r2", spec)
	if err != nil {
		t.Fatalf("second execute: %v", err)
	}
	if !second.Cached || second.Value != "payload" {
		t.Fatalf("unexpected second result: %+v", second)
	}
	if computes != 1 {
		t.Fatalf("expected one compute, got %d", computes)
	}
}

func TestExecuteStepRecomputesOnVersionChange(t *testing.T) {
	store := newVersionedStore(t)
	ctx := context.Background()
	computes := 0
	run := func(context.Context) (any, error) {
		computes++
		return computes, nil
	}

	if _, err := ExecuteStep(ctx, store, "demo", "r1", StepSpec{Key: "s", Version: "v1", Run: run}); err != nil {
		t.Fatalf("v1: %v", err)
	}
	res, err := ExecuteStep(ctx, store, "demo", "r1", StepSpec{Key: "s", Version: "v2", Run: run})
	if err != nil {
		t.Fatalf("v2: %v", err)
	}
	if res.Cached || computes != 2 {
		t.Fatalf("expected recompute on version change: cached=%v computes=%d", res.Cached, computes)
	}
}

func TestExecuteStepPropagatesStepError(t *testing.T) {
	store := newVersionedStore(t)
	wantErr := errors.New("compute failed")

	_, err := ExecuteStep(context.Background(), store, "demo", "r1", StepSpec{
		Key:     "s",
		Version: "v1",
		Run:     func(context.Context) (any, error) { return nil, wantErr },
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected step error, got %v", err)
	}

	// A failed compute must not leave a cache entry behind.
	sc, err := FromOutput(OutputContext{StepKey: "s", PipelineName: "demo", RunID: "r1", Version: "v1"})
	if err != nil {
		t.Fatalf("from output: %v", err)
	}
	ok, err := store.Exists(context.Background(), sc)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatal("failed step left a cached output")
	}
}

func TestExecuteStepRequiresVersion(t *testing.T) {
	store := newVersionedStore(t)

	_, err := ExecuteStep(context.Background(), store, "demo", "r1", StepSpec{
		Key: "s",
		Run: func(context.Context) (any, error) { return 1, nil },
	})
	if !errors.Is(err, outputstore.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}
