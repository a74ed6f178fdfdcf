package outputstore

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheKey includes the version alongside the identity so a version-scoped
// inner store never serves a stale entry after the version changes.
type cacheKey struct {
	id      Identity
	version string
}

// CachedStore is a read-through decorator that keeps recently accessed
// output values in an in-process LRU in front of any Store. Useful when the
// same upstream output is consumed by many downstream steps in one process.
type CachedStore struct {
	inner Store
	cache *lru.Cache[cacheKey, any]
}

func NewCachedStore(inner Store, size int) (*CachedStore, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner store is required")
	}
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New[cacheKey, any](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{inner: inner, cache: cache}, nil
}

func (s *CachedStore) key(sc StoreContext) cacheKey {
	return cacheKey{id: sc.Identity(), version: sc.Version}
}

func (s *CachedStore) Write(ctx context.Context, sc StoreContext, value any) (*Materialization, error) {
	if s == nil {
		return nil, fmt.Errorf("cached store is nil")
	}
	// Invalidate rather than populate: the next Read must observe the inner
	// store's decoded form, not the live value handed to Write.
	s.cache.Remove(s.key(sc))
	return s.inner.Write(ctx, sc, value)
}

func (s *CachedStore) Read(ctx context.Context, sc StoreContext) (any, error) {
	if s == nil {
		return nil, fmt.Errorf("cached store is nil")
	}
	key := s.key(sc)
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}
	v, err := s.inner.Read(ctx, sc)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, v)
	return v, nil
}
