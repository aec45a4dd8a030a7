// internal/routing/alias.go
//
// Alias-resolution cache and middleware.
//
// Context
// -------
// Content nodes may expose friendly vanity paths ("/hello" for
// "/blog/hello").  The content store publishes them through the minimal
// Source interface, which keeps this package independent of any concrete
// store.  Both memstore.Store and sqlstore.Store satisfy it.
//
// Workflow
// --------
//   1. cmd/web constructs AliasCache via routing.NewAliasCache(store, ttl).
//   2. server.Router wires routing.Middleware(cache, mode) ahead of
//      request.Resolve.
//   3. Middleware rewrites the resource part of r.URL.Path on a cache hit,
//      keeping selectors and extension; otherwise it falls through or 404s
//      per routing mode.
//
// Notes
// -----
// • The cache reloads lazily once its TTL has elapsed.  A failed reload
//   keeps serving the previous table.
// • Oxford commas, two spaces after periods.
// • Max line length 100 columns.

package routing

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/objview/internal/request"
)

// -----------------------------------------------------------------------------
// AliasCache
// -----------------------------------------------------------------------------

// Source lists alias → target resource paths.
type Source interface {
	Aliases(ctx context.Context) (map[string]string, error)
}

// AliasCache stores alias→target pairs plus TTL state.  Zero value is
// unusable; construct with NewAliasCache.
type AliasCache struct {
	mu       sync.RWMutex
	data     map[string]string
	loadedAt time.Time
	ttl      time.Duration
	src      Source
}

// NewAliasCache returns an empty cache with the specified TTL.  The first
// request triggers a Load.
func NewAliasCache(src Source, ttl time.Duration) *AliasCache {
	return &AliasCache{data: map[string]string{}, src: src, ttl: ttl}
}

// Load refreshes all aliases from the source.
func (c *AliasCache) Load(ctx context.Context) error {
	fresh, err := c.src.Aliases(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.data = fresh
	c.loadedAt = time.Now()
	c.mu.Unlock()

	zap.L().Debug("alias cache load",
		zap.Int("count", len(fresh)))
	return nil
}

// Len reports the number of cached aliases.
func (c *AliasCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *AliasCache) lookup(path string) (string, bool) {
	c.mu.RLock()
	target, ok := c.data[path]
	c.mu.RUnlock()
	return target, ok
}

func (c *AliasCache) needsRefresh() bool {
	c.mu.RLock()
	stale := c.loadedAt.IsZero() || time.Since(c.loadedAt) > c.ttl
	c.mu.RUnlock()
	return stale
}

// -----------------------------------------------------------------------------
// Middleware factory
// -----------------------------------------------------------------------------

const (
	RouteModeAbsolute  = "absolute"
	RouteModeAliasOnly = "alias"
	RouteModeBoth      = "both"
)

// Middleware returns a Chi middleware that rewrites alias paths.
func Middleware(cache *AliasCache, mode string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if mode == RouteModeAbsolute || cache == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cache.needsRefresh() {
				if err := cache.Load(r.Context()); err != nil {
					zap.L().Warn("alias cache reload failed", zap.Error(err))
				}
			}

			info := request.SplitPath(r.URL.Path)
			if target, ok := cache.lookup(info.ResourcePath); ok {
				original := r.URL.Path
				info.ResourcePath = target
				r.URL.Path = info.String()
				r.URL.RawPath = ""
				zap.L().Debug("alias rewrite",
					zap.String("from", original),
					zap.String("to", r.URL.Path))

				next.ServeHTTP(w, r)
				return
			}

			if mode == RouteModeAliasOnly {
				http.NotFound(w, r)
				return
			}

			// mode == both and alias miss
			next.ServeHTTP(w, r)
		})
	}
}
