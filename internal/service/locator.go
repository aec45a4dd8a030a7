// internal/service/locator.go
//
// Service locator handed to every request.
//
// Context
// -------
// Templates and handlers look up auxiliary services (config snapshot, the
// vault client, the resource manager, …) by name.  cmd/web registers them
// once at boot; afterwards the locator is read-mostly.
//
// Usage
// -----
//
//	loc := service.NewLocator()
//	loc.Register("config", cfg)
//	if v, ok := loc.Get("config"); ok { … }
//
// Templates use Lookup, which returns nil on a miss:
//
//	{{ with .serviceLocator.Lookup "config" }}{{ .HTTP.ListenAddr }}{{ end }}
//
// Notes
// -----
// • Duplicate registration replaces the earlier entry, mirroring the other
//   registries in this codebase.
// • Oxford commas, two spaces after periods.
package service

import (
	"sort"
	"sync"
)

// Locator is a concurrency-safe name → service registry.
type Locator struct {
	mu       sync.RWMutex
	services map[string]any
}

// NewLocator returns an empty Locator.
func NewLocator() *Locator {
	return &Locator{services: make(map[string]any)}
}

// Register stores svc under name.
func (l *Locator) Register(name string, svc any) {
	l.mu.Lock()
	l.services[name] = svc
	l.mu.Unlock()
}

// Get returns the service registered under name.
func (l *Locator) Get(name string) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	svc, ok := l.services[name]
	return svc, ok
}

// Lookup is Get without the boolean, for template use.
func (l *Locator) Lookup(name string) any {
	svc, _ := l.Get(name)
	return svc
}

// Names lists registered names in sorted order.
func (l *Locator) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.services))
	for n := range l.services {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Find returns the service under name when it satisfies T.
func Find[T any](l *Locator, name string) (T, bool) {
	var zero T
	if l == nil {
		return zero, false
	}
	v, ok := l.Get(name)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
