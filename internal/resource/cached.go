// internal/resource/cached.go
//
// CachedManager decorates any Manager with an LRU of resolved resources and
// a singleflight barrier, so a burst of requests for a cold path costs one
// backend lookup.
//
// Misses (ErrNotFound) are not cached; a path created after the first 404
// becomes visible on the next request.  The shared load ignores the
// cancellation of whichever caller started it, and keeps its values.
package resource

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/objview/internal/cache"
	"github.com/yanizio/objview/internal/metrics"
)

// CachedManagerTypeName identifies the caching decorator to templates.
const CachedManagerTypeName = "github.com/yanizio/objview/internal/resource.CachedManager"

// CachedManager is safe for concurrent use.
type CachedManager struct {
	inner Manager
	lru   *cache.LRU[string, Resource]
	sfg   singleflight.Group
}

// NewCached wraps inner with an LRU holding up to capacity resources.
func NewCached(inner Manager, capacity int) *CachedManager {
	return &CachedManager{
		inner: inner,
		lru:   cache.New[string, Resource](capacity),
	}
}

// Resolve returns the cached resource for path or loads it from inner.
func (c *CachedManager) Resolve(ctx context.Context, path string) (Resource, error) {
	if r, ok := c.lru.Get(path); ok {
		metrics.ResourceCacheHitsTotal.Inc()
		return r, nil
	}

	v, err, _ := c.sfg.Do(path, func() (any, error) {
		// Double-check after the singleflight barrier.
		if r, ok := c.lru.Get(path); ok {
			return r, nil
		}
		// Waiters share this load, so it must outlive the first caller.
		r, err := c.inner.Resolve(context.WithoutCancel(ctx), path)
		if err != nil {
			return nil, err
		}
		c.lru.Add(path, r)
		return r, nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			metrics.ResourceResolveTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	return v.(Resource), nil
}

// Invalidate drops path from the cache.
func (c *CachedManager) Invalidate(path string) { c.lru.Remove(path) }

// Unwrap returns the decorated Manager.
func (c *CachedManager) Unwrap() Manager { return c.inner }

func (c *CachedManager) TypeName() string { return CachedManagerTypeName }
