package outputstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stepstore/internal/codec"
)

// FSStore persists encoded output values under
// baseDir/sourceRunID/stepKey/outputName. Every run gets an isolated
// namespace, so re-execution never clobbers another run's outputs. Writes
// are not surfaced to any external catalog.
type FSStore struct {
	baseDir string
	codec   codec.Codec
}

func NewFSStore(baseDir string, c codec.Codec) (*FSStore, error) {
	if c == nil {
		return nil, fmt.Errorf("codec is required")
	}
	return &FSStore{baseDir: defaultBaseDir(baseDir), codec: c}, nil
}

func (s *FSStore) path(sc StoreContext) (string, error) {
	if sc.SourceRunID == "" {
		return "", fmt.Errorf("%w: source run id is required for run-scoped paths", ErrConfig)
	}
	id := sc.Identity()
	return filepath.Join(append([]string{s.baseDir}, id.PathSegments()...)...), nil
}

func (s *FSStore) Write(_ context.Context, sc StoreContext, value any) (*Materialization, error) {
	if s == nil {
		return nil, fmt.Errorf("fs store is nil")
	}
	path, err := s.path(sc)
	if err != nil {
		return nil, err
	}
	return nil, writeEncoded(s.codec, path, value)
}

func (s *FSStore) Read(_ context.Context, sc StoreContext) (any, error) {
	if s == nil {
		return nil, fmt.Errorf("fs store is nil")
	}
	path, err := s.path(sc)
	if err != nil {
		return nil, err
	}
	return readDecoded(s.codec, path)
}

func defaultBaseDir(baseDir string) string {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return "."
	}
	return baseDir
}

// writeEncoded encodes the value and fully overwrites the file at path,
// creating parent directories as needed. MkdirAll is idempotent, which keeps
// concurrent writers on unrelated keys safe without coordination.
func writeEncoded(c codec.Codec, path string, value any) error {
	raw, err := c.Encode(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// readDecoded loads and decodes the file at path. A missing path is
// ErrNotFound; a directory at the path or a codec failure is ErrDecode.
func readDecoded(c codec.Codec, path string) (any, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read %s: directory at output path: %w", path, ErrDecode)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	v, err := c.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("read %s: %v: %w", path, err, ErrDecode)
	}
	return v, nil
}
