// internal/resource/resource_test.go
//
// Capability queries, mapper registry, and the caching decorator.
//
// Run: go test ./internal/resource -v

package resource

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type bare struct{}

func (bare) Path() string         { return "/bare" }
func (bare) ResourceType() string { return "bare" }

type widget struct {
	Title string `yaml:"title"`
	Count int    `yaml:"count"`
}

func (*widget) TypeName() string { return "test.Widget" }

type objectOnly struct {
	bare
	obj MappedObject
}

func (o objectOnly) Object() MappedObject { return o.obj }

// wrapper forwards capabilities through Adaptable instead of embedding.
type wrapper struct {
	bare
	inner Resource
}

func (w wrapper) Adapt(c Capability) (any, bool) {
	switch c {
	case CapNode:
		p, ok := NodeOf(w.inner)
		return p, ok
	case CapObject:
		p, ok := ObjectOf(w.inner)
		return p, ok
	}
	return nil, false
}

func TestCapabilityQueries(t *testing.T) {
	n := &Node{Path: "/n", PrimaryType: "page"}
	obj := &widget{Title: "w"}

	cases := []struct {
		name       string
		r          Resource
		node, objc bool
	}{
		{"nil", nil, false, false},
		{"none", bare{}, false, false},
		{"node only", NewNodeResource(n), true, false},
		{"object only", objectOnly{obj: obj}, false, true},
		{"both", NewMappedResource(n, obj), true, true},
		{"adapted both", wrapper{inner: NewMappedResource(n, obj)}, true, true},
		{"adapted none", wrapper{inner: bare{}}, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := NodeOf(tc.r); ok != tc.node {
				t.Errorf("NodeOf ok = %v, want %v", ok, tc.node)
			}
			if _, ok := ObjectOf(tc.r); ok != tc.objc {
				t.Errorf("ObjectOf ok = %v, want %v", ok, tc.objc)
			}
		})
	}
}

func TestNode_ResourceTypeFallback(t *testing.T) {
	n := &Node{PrimaryType: "nt:unstructured"}
	if got := n.ResourceType(); got != "nt:unstructured" {
		t.Fatalf("ResourceType = %q, want primary type", got)
	}
	n.Properties = map[string]any{PropResourceType: "blog/post"}
	if got := n.ResourceType(); got != "blog/post" {
		t.Fatalf("ResourceType = %q, want blog/post", got)
	}
}

func TestMappers_Build(t *testing.T) {
	m := NewMappers()
	m.Register("test/widget", Decode(func() *widget { return &widget{} }))

	plain, err := m.Build(&Node{Path: "/p", PrimaryType: "page"})
	if err != nil {
		t.Fatalf("Build plain: %v", err)
	}
	if _, ok := ObjectOf(plain); ok {
		t.Fatalf("unmapped type exposed ObjectProvider")
	}

	mapped, err := m.Build(&Node{
		Path:        "/w",
		PrimaryType: "test/widget",
		Properties:  map[string]any{"title": "Gear", "count": 3},
	})
	if err != nil {
		t.Fatalf("Build mapped: %v", err)
	}
	op, ok := ObjectOf(mapped)
	if !ok {
		t.Fatalf("mapped type missing ObjectProvider")
	}
	w, ok := op.Object().(*widget)
	if !ok || w.Title != "Gear" || w.Count != 3 {
		t.Fatalf("decoded object = %#v", op.Object())
	}
}

func TestMappers_BuildPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	m := NewMappers()
	m.Register("bad", func(*Node) (MappedObject, error) { return nil, boom })

	if _, err := m.Build(&Node{Path: "/b", PrimaryType: "bad"}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

type countingManager struct {
	calls atomic.Int32
	res   map[string]Resource
}

func (c *countingManager) Resolve(_ context.Context, path string) (Resource, error) {
	c.calls.Add(1)
	if r, ok := c.res[path]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

func (c *countingManager) TypeName() string { return "test.countingManager" }

func TestCachedManager(t *testing.T) {
	inner := &countingManager{res: map[string]Resource{
		"/a": NewNodeResource(&Node{Path: "/a"}),
	}}
	cm := NewCached(inner, 8)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cm.Resolve(ctx, "/a"); err != nil {
				t.Errorf("Resolve: %v", err)
			}
		}()
	}
	wg.Wait()
	if n := inner.calls.Load(); n < 1 || n > 16 {
		t.Fatalf("inner calls = %d", n)
	}

	before := inner.calls.Load()
	if _, err := cm.Resolve(ctx, "/a"); err != nil {
		t.Fatalf("Resolve cached: %v", err)
	}
	if inner.calls.Load() != before {
		t.Fatalf("cached path hit the inner manager")
	}

	for i := 0; i < 2; i++ {
		if _, err := cm.Resolve(ctx, "/missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}
	if inner.calls.Load() != before+2 {
		t.Fatalf("misses were cached: calls = %d", inner.calls.Load())
	}

	cm.Invalidate("/a")
	if _, err := cm.Resolve(ctx, "/a"); err != nil {
		t.Fatalf("Resolve after invalidate: %v", err)
	}
	if inner.calls.Load() != before+3 {
		t.Fatalf("invalidate did not drop /a")
	}
	if cm.TypeName() != CachedManagerTypeName || cm.Unwrap() != Manager(inner) {
		t.Fatalf("decorator identity wrong")
	}
}

type ctxKey struct{}

// ctxManager fails once its context is done and records the value it saw.
type ctxManager struct {
	seen any
}

func (m *ctxManager) Resolve(ctx context.Context, path string) (Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.seen = ctx.Value(ctxKey{})
	return NewNodeResource(&Node{Path: path}), nil
}

func (m *ctxManager) TypeName() string { return "test.ctxManager" }

func TestCachedManager_DetachesCancellation(t *testing.T) {
	inner := &ctxManager{}
	cm := NewCached(inner, 4)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "req-1"))
	cancel()

	r, err := cm.Resolve(ctx, "/shared")
	if err != nil {
		t.Fatalf("Resolve with cancelled caller: %v", err)
	}
	if r.Path() != "/shared" {
		t.Fatalf("path = %q", r.Path())
	}
	if inner.seen != "req-1" {
		t.Fatalf("context value lost: %v", inner.seen)
	}
	if _, err := cm.Resolve(context.Background(), "/shared"); err != nil {
		t.Fatalf("second caller: %v", err)
	}
}
