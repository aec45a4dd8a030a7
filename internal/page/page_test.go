package page

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yanizio/objview/internal/request"
	"github.com/yanizio/objview/internal/resource"
)

func TestScope_OrderAndOverwrite(t *testing.T) {
	s := NewScope()
	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("a", 3) // keeps first slot

	if diff := cmp.Diff([]string{"a", "b"}, s.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if v, _ := s.Get("a"); v != 3 {
		t.Fatalf("a = %v, want 3", v)
	}
	if diff := cmp.Diff(map[string]any{"a": 3, "b": 2}, s.Map()); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}

	if !s.Remove("a") || s.Remove("a") {
		t.Fatalf("Remove semantics wrong")
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
}

func TestScope_MapIsCopy(t *testing.T) {
	s := NewScope()
	s.Set("k", "v")
	m := s.Map()
	m["k"] = "changed"
	if v, _ := s.Get("k"); v != "v" {
		t.Fatalf("Map() leaked internal state")
	}
}

func TestContext_Accessors(t *testing.T) {
	c := New(nil, nil, nil)
	if _, ok := c.Request(); ok {
		t.Fatalf("nil request reported present")
	}
	if _, ok := c.Response(); ok {
		t.Fatalf("nil response reported present")
	}
	if _, ok := c.ResourceManager(); ok {
		t.Fatalf("nil manager reported present")
	}
	c.SetAttribute("x", 1)
	if v, ok := c.Attribute("x"); !ok || v != 1 {
		t.Fatalf("attribute round trip failed")
	}
}

func TestFromHTTP(t *testing.T) {
	hr := httptest.NewRequest(http.MethodGet, "/p", nil)
	req := request.New(hr, resource.NewNodeResource(&resource.Node{Path: "/p"}), nil)
	res := request.NewResponse(httptest.NewRecorder())

	ctx := request.WithRequest(hr.Context(), req)
	ctx = request.WithResponse(ctx, res)
	c := FromHTTP(hr.WithContext(ctx))

	if got, ok := c.Request(); !ok || got != req {
		t.Fatalf("request not picked up from context")
	}
	if got, ok := c.Response(); !ok || got != res {
		t.Fatalf("response not picked up from context")
	}
	if _, ok := c.ResourceManager(); ok {
		t.Fatalf("manager should be absent")
	}
}
