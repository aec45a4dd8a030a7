// internal/routing/alias_test.go
//
// Unit-tests for the alias middleware.
//
// Context
// -------
// These tests verify four behaviours:
//
//   • Cache-hit rewrite in BOTH mode keeps selectors  → 200, path mutated
//   • Cache-miss in ALIAS-only mode                   → 404
//   • ABSOLUTE routing mode leaves path untouched     → 200
//   • A stale cache reloads from its Source
//
// fakeSource is a minimal Source that counts Aliases calls.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeSource struct {
	data  map[string]string
	calls int
}

func (f *fakeSource) Aliases(context.Context) (map[string]string, error) {
	f.calls++
	out := make(map[string]string, len(f.data))
	for k, v := range f.data {
		out[k] = v
	}
	return out, nil
}

func pathRecorder(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})
}

func TestAliasRewrite_CacheHit(t *testing.T) {
	src := &fakeSource{data: map[string]string{"/hello": "/blog/hello"}}
	cache := NewAliasCache(src, time.Minute)
	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	var got string
	req := httptest.NewRequest(http.MethodGet, "/hello.print.html", nil)
	rr := httptest.NewRecorder()

	Middleware(cache, RouteModeBoth)(pathRecorder(&got)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got != "/blog/hello.print.html" {
		t.Fatalf("rewrite failed: got path %q", got)
	}
	if src.calls != 1 {
		t.Fatalf("fresh cache reloaded: calls = %d", src.calls)
	}
}

func TestAliasRewrite_Miss_AliasOnly(t *testing.T) {
	cache := NewAliasCache(&fakeSource{}, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rr := httptest.NewRecorder()

	var got string
	Middleware(cache, RouteModeAliasOnly)(pathRecorder(&got)).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestAliasRewrite_AbsoluteMode_NoMutation(t *testing.T) {
	src := &fakeSource{data: map[string]string{"/keep": "/elsewhere"}}
	cache := NewAliasCache(src, time.Minute)

	var got string
	req := httptest.NewRequest(http.MethodGet, "/keep", nil)
	rr := httptest.NewRecorder()

	Middleware(cache, RouteModeAbsolute)(pathRecorder(&got)).ServeHTTP(rr, req)

	if got != "/keep" {
		t.Fatalf("path mutated in absolute mode: %q", got)
	}
	if src.calls != 0 {
		t.Fatalf("absolute mode loaded aliases")
	}
}

func TestAliasRewrite_LoadsFromSource(t *testing.T) {
	src := &fakeSource{data: map[string]string{"/team": "/about/team"}}
	cache := NewAliasCache(src, time.Hour)
	h := Middleware(cache, RouteModeBoth)

	var got string
	for i := 0; i < 3; i++ {
		h(pathRecorder(&got)).ServeHTTP(httptest.NewRecorder(),
			httptest.NewRequest(http.MethodGet, "/team", nil))
	}
	if got != "/about/team" {
		t.Fatalf("path = %q, want /about/team", got)
	}
	if src.calls != 1 {
		t.Fatalf("source calls = %d, want 1 within TTL", src.calls)
	}
	if cache.Len() != 1 {
		t.Fatalf("Len = %d", cache.Len())
	}
}
