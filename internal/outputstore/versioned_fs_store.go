package outputstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"stepstore/internal/codec"
)

// VersionedFSStore persists encoded output values under
// baseDir/stepKey/outputName/version. Run identity is deliberately ignored:
// an identical version means an identical path, so unrelated runs hit the
// same cached artifact. This is the mechanism memoized execution relies on.
type VersionedFSStore struct {
	baseDir string
	codec   codec.Codec
}

func NewVersionedFSStore(baseDir string, c codec.Codec) (*VersionedFSStore, error) {
	if c == nil {
		return nil, fmt.Errorf("codec is required")
	}
	return &VersionedFSStore{baseDir: defaultBaseDir(baseDir), codec: c}, nil
}

func (s *VersionedFSStore) path(sc StoreContext) (string, error) {
	if sc.Version == "" {
		return "", fmt.Errorf("%w: version is required for version-scoped paths", ErrConfig)
	}
	return filepath.Join(s.baseDir, sc.StepKey, sc.OutputName, sc.Version), nil
}

func (s *VersionedFSStore) Write(_ context.Context, sc StoreContext, value any) (*Materialization, error) {
	if s == nil {
		return nil, fmt.Errorf("versioned fs store is nil")
	}
	path, err := s.path(sc)
	if err != nil {
		return nil, err
	}
	return nil, writeEncoded(s.codec, path, value)
}

func (s *VersionedFSStore) Read(_ context.Context, sc StoreContext) (any, error) {
	if s == nil {
		return nil, fmt.Errorf("versioned fs store is nil")
	}
	path, err := s.path(sc)
	if err != nil {
		return nil, err
	}
	return readDecoded(s.codec, path)
}

// Exists reports whether a cached artifact is present for the context's
// (step key, output name, version) triple. A directory at the target path
// never counts as a valid cached result.
func (s *VersionedFSStore) Exists(_ context.Context, sc StoreContext) (bool, error) {
	if s == nil {
		return false, fmt.Errorf("versioned fs store is nil")
	}
	path, err := s.path(sc)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return !info.IsDir(), nil
}
