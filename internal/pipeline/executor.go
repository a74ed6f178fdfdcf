package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"stepstore/internal/outputstore"
)

// StepSpec declares one memoizable computation step: a key, the output slot
// it fills, the engine-computed version of its logic+config, and the compute
// body to run on a cache miss.
type StepSpec struct {
	Key        string
	OutputName string
	Version    string
	Run        func(ctx context.Context) (any, error)
}

// StepResult carries the step's output value and whether compute was skipped.
type StepResult struct {
	Value  any
	Cached bool
}

// ExecuteStep consults the versioned store before running the step body. On
// a version hit the compute is skipped and the stored value is read back; on
// a miss the body runs and its output is written under the same context.
//
// The exists-then-read sequence is not atomic against a concurrent delete; a
// lost race surfaces as ErrNotFound and the caller should treat it as a
// retryable recompute, which this function reports explicitly.
func ExecuteStep(ctx context.Context, store outputstore.VersionedStore, pipelineName, runID string, spec StepSpec) (StepResult, error) {
	sc, err := FromOutput(OutputContext{
		StepKey:      spec.Key,
		Name:         spec.OutputName,
		PipelineName: pipelineName,
		RunID:        runID,
		Version:      spec.Version,
	})
	if err != nil {
		return StepResult{}, err
	}

	ok, err := store.Exists(ctx, sc)
	if err != nil {
		return StepResult{}, err
	}
	if ok {
		v, err := store.Read(ctx, sc)
		if err != nil {
			if errors.Is(err, outputstore.ErrNotFound) {
				return StepResult{}, fmt.Errorf("step %s: cached output vanished, recompute required: %w", spec.Key, err)
			}
			return StepResult{}, err
		}
		log.Printf("%s: using cached output %s@%s", spec.Key, sc.OutputName, sc.Version)
		return StepResult{Value: v, Cached: true}, nil
	}

	if spec.Run == nil {
		return StepResult{}, fmt.Errorf("step %s: run body is required", spec.Key)
	}
	v, err := spec.Run(ctx)
	if err != nil {
		return StepResult{}, err
	}
	if _, err := store.Write(ctx, sc, v); err != nil {
		return StepResult{}, err
	}
	return StepResult{Value: v}, nil
}
