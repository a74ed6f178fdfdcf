// Package outputstore persists and retrieves the values produced by pipeline
// step outputs. Backends are addressed through StoreContext: the run-scoped
// backends key on (source run id, step key, output name), the explicit-path
// backend on caller-supplied metadata, and the version-scoped backend on
// (step key, output name, version), which is what makes memoized execution
// possible.
//
// The engine guarantees single-writer-per-key semantics within a run, so no
// backend takes write-write locks. None of the operations retry; retry and
// backoff policy belongs to the caller.
package outputstore

import "context"

// Store is the capability contract every backend implements. Write makes the
// value durable such that a subsequent Read with an equal context returns an
// equivalent value; a pre-existing value is silently overwritten, since
// re-execution of the same run output is expected to replace its prior
// attempt. Read returns ErrNotFound when nothing was written for an equal
// context and ErrDecode when bytes exist but cannot be decoded.
type Store interface {
	Write(ctx context.Context, sc StoreContext, value any) (*Materialization, error)
	Read(ctx context.Context, sc StoreContext) (any, error)
}

// VersionedStore adds the existence check that drives memoization: the
// engine calls Exists before a step's compute body and skips the step on a
// hit. Exists is true iff a prior Write occurred for an equal
// (step key, output name, version) triple and the stored artifact is not a
// directory. When Exists reports true, a subsequent Read must not return
// ErrNotFound absent a concurrent delete; a lost race surfaces as
// ErrNotFound and is the caller's recompute signal.
type VersionedStore interface {
	Store
	Exists(ctx context.Context, sc StoreContext) (bool, error)
}

// Materialization is the optional side-effect record a Write may return for
// outputs worth surfacing to an external catalog. Backends that do not want
// their outputs tracked return nil.
type Materialization struct {
	// AssetKey identifies the output: pipeline name, step key, output name.
	AssetKey []string
	// Path is the human-readable absolute location of the stored artifact.
	Path string
}
