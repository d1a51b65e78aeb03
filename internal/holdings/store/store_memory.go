package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"shareholder/internal/holdings/models"
)

const memoryKey = "snapshot"

// MemoryCache keeps the snapshot in process memory with a TTL.
type MemoryCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemoryCache creates a cache whose entries expire after ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Get returns the cached snapshot or ErrNotFound once it has expired.
func (c *MemoryCache) Get(_ context.Context) (*models.Snapshot, error) {
	v, ok := c.cache.Get(memoryKey)
	if !ok {
		return nil, ErrNotFound
	}
	snap, ok := v.(*models.Snapshot)
	if !ok || snap == nil {
		return nil, ErrNotFound
	}
	return snap, nil
}

// Put replaces the cached snapshot. A nil snapshot is ignored.
func (c *MemoryCache) Put(_ context.Context, snap *models.Snapshot) error {
	if snap == nil {
		return nil
	}
	c.cache.Set(memoryKey, snap, c.ttl)
	return nil
}

// Invalidate drops the cached snapshot.
func (c *MemoryCache) Invalidate() {
	c.cache.Delete(memoryKey)
}
