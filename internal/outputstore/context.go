package outputstore

import (
	"fmt"
	"strings"
)

// DefaultOutputName is used when a step output is not explicitly named.
const DefaultOutputName = "result"

// MetadataPathKey is the metadata entry the explicit-path backend reads.
const MetadataPathKey = "path"

// Identity uniquely addresses one step output within a run lineage.
// SourceRunID may point at an ancestor run when the producing step was
// skipped under memoization and the value is inherited unchanged; this layer
// treats it as an opaque string supplied correctly by the engine.
type Identity struct {
	SourceRunID string
	StepKey     string
	OutputName  string
}

// PathSegments returns the identity fields in their fixed addressing order:
// source run id, step key, output name.
func (id Identity) PathSegments() []string {
	return []string{id.SourceRunID, id.StepKey, id.OutputName}
}

func (id Identity) String() string {
	return strings.Join(id.PathSegments(), "/")
}

// StoreContext carries everything a backend needs to address one step
// output. It is fully determined by NewStoreContext and must be treated as
// read-only afterwards.
type StoreContext struct {
	StepKey      string
	OutputName   string
	SourceRunID  string
	PipelineName string
	// StepDef is an opaque handle to the producing (or consuming) step
	// definition. Backends may branch on it; the core never interprets it.
	StepDef  any
	Metadata map[string]string
	// Version is the engine-computed logic+config fingerprint of the step
	// output. Empty outside memoized execution.
	Version string
}

// StoreContextParams is the raw constructor input for NewStoreContext.
type StoreContextParams struct {
	StepKey      string
	OutputName   string
	SourceRunID  string
	PipelineName string
	StepDef      any
	Metadata     map[string]string
	Version      string
}

// NewStoreContext validates the parameters once and returns an immutable
// context. The metadata map is copied so later caller mutation cannot leak
// into a constructed context.
func NewStoreContext(p StoreContextParams) (StoreContext, error) {
	stepKey := strings.TrimSpace(p.StepKey)
	if stepKey == "" {
		return StoreContext{}, fmt.Errorf("%w: step key is required", ErrValidation)
	}
	pipelineName := strings.TrimSpace(p.PipelineName)
	if pipelineName == "" {
		return StoreContext{}, fmt.Errorf("%w: pipeline name is required", ErrValidation)
	}
	outputName := strings.TrimSpace(p.OutputName)
	if outputName == "" {
		outputName = DefaultOutputName
	}

	var meta map[string]string
	if len(p.Metadata) > 0 {
		meta = make(map[string]string, len(p.Metadata))
		for k, v := range p.Metadata {
			if strings.TrimSpace(k) == "" {
				return StoreContext{}, fmt.Errorf("%w: metadata keys must be non-empty strings", ErrValidation)
			}
			meta[k] = v
		}
	}

	return StoreContext{
		StepKey:      stepKey,
		OutputName:   outputName,
		SourceRunID:  strings.TrimSpace(p.SourceRunID),
		PipelineName: pipelineName,
		StepDef:      p.StepDef,
		Metadata:     meta,
		Version:      strings.TrimSpace(p.Version),
	}, nil
}

// Identity returns the run-scoped addressing key for this context.
func (c StoreContext) Identity() Identity {
	return Identity{
		SourceRunID: c.SourceRunID,
		StepKey:     c.StepKey,
		OutputName:  c.OutputName,
	}
}

// MetadataValue looks up a backend-specific metadata entry.
func (c StoreContext) MetadataValue(key string) (string, bool) {
	v, ok := c.Metadata[key]
	return v, ok
}
