package outputstore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"stepstore/internal/codec"
)

// CustomPathFSStore persists encoded output values at the caller-supplied
// path from Metadata["path"], joined under baseDir. It trades run isolation
// for stable, externally discoverable locations, so every Write emits a
// Materialization for the catalog.
type CustomPathFSStore struct {
	baseDir string
	codec   codec.Codec
}

func NewCustomPathFSStore(baseDir string, c codec.Codec) (*CustomPathFSStore, error) {
	if c == nil {
		return nil, fmt.Errorf("codec is required")
	}
	return &CustomPathFSStore{baseDir: defaultBaseDir(baseDir), codec: c}, nil
}

func (s *CustomPathFSStore) path(sc StoreContext) (string, error) {
	rel, ok := sc.MetadataValue(MetadataPathKey)
	if !ok || strings.TrimSpace(rel) == "" {
		return "", fmt.Errorf("%w: metadata %q is required", ErrConfig, MetadataPathKey)
	}
	rel = filepath.Clean(strings.TrimSpace(rel))
	// Reject absolute paths and ".." escapes so outputs stay under baseDir.
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: metadata %q must stay within the base directory: %q", ErrConfig, MetadataPathKey, rel)
	}
	return filepath.Join(s.baseDir, rel), nil
}

func (s *CustomPathFSStore) Write(_ context.Context, sc StoreContext, value any) (*Materialization, error) {
	if s == nil {
		return nil, fmt.Errorf("custom path store is nil")
	}
	path, err := s.path(sc)
	if err != nil {
		return nil, err
	}
	if err := writeEncoded(s.codec, path, value); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return &Materialization{
		AssetKey: []string{sc.PipelineName, sc.StepKey, sc.OutputName},
		Path:     abs,
	}, nil
}

func (s *CustomPathFSStore) Read(_ context.Context, sc StoreContext) (any, error) {
	if s == nil {
		return nil, fmt.Errorf("custom path store is nil")
	}
	path, err := s.path(sc)
	if err != nil {
		return nil, err
	}
	return readDecoded(s.codec, path)
}
