// Package pipeline bridges the execution engine's call sites onto the output
// store. The adapters here are the only code that touches engine-side
// execution context objects; everything in internal/outputstore depends on
// StoreContext alone.
package pipeline

import (
	"context"
	"fmt"

	"stepstore/internal/outputstore"
)

// OutputContext is the engine-side view of a step output about to be
// produced.
type OutputContext struct {
	StepKey      string
	Name         string
	Metadata     map[string]string
	PipelineName string
	StepDef      any
	// RunID identifies the run producing the output. Under memoized
	// re-execution the engine supplies an ancestor run's id here when the
	// producing step was skipped.
	RunID   string
	Version string
}

// LoadContext is the engine-side view of an input about to be consumed.
type LoadContext struct {
	// Upstream is the output context of the step that produced the value.
	Upstream *OutputContext
	// StepDef is the definition of the consuming step.
	StepDef any
}

// FromOutput builds the store context for a producing step. FromOutput and
// FromLoad must agree on every addressing field for the same underlying
// output, so a producer's write key equals a consumer's read key.
func FromOutput(oc OutputContext) (outputstore.StoreContext, error) {
	return outputstore.NewStoreContext(outputstore.StoreContextParams{
		StepKey:      oc.StepKey,
		OutputName:   oc.Name,
		SourceRunID:  oc.RunID,
		PipelineName: oc.PipelineName,
		StepDef:      oc.StepDef,
		Metadata:     oc.Metadata,
		Version:      oc.Version,
	})
}

// FromLoad builds the store context for a consuming step. All addressing
// fields come from the upstream output; only the opaque step definition is
// the consumer's.
func FromLoad(lc LoadContext) (outputstore.StoreContext, error) {
	if lc.Upstream == nil {
		return outputstore.StoreContext{}, fmt.Errorf("%w: load context has no upstream output", outputstore.ErrValidation)
	}
	oc := *lc.Upstream
	return outputstore.NewStoreContext(outputstore.StoreContextParams{
		StepKey:      oc.StepKey,
		OutputName:   oc.Name,
		SourceRunID:  oc.RunID,
		PipelineName: oc.PipelineName,
		StepDef:      lc.StepDef,
		Metadata:     oc.Metadata,
		Version:      oc.Version,
	})
}

// HandleOutput persists a value the engine just produced for a step output.
func HandleOutput(ctx context.Context, store outputstore.Store, oc OutputContext, value any) (*outputstore.Materialization, error) {
	sc, err := FromOutput(oc)
	if err != nil {
		return nil, err
	}
	return store.Write(ctx, sc, value)
}

// LoadInput retrieves the upstream value a step is about to consume.
func LoadInput(ctx context.Context, store outputstore.Store, lc LoadContext) (any, error) {
	sc, err := FromLoad(lc)
	if err != nil {
		return nil, err
	}
	return store.Read(ctx, sc)
}
