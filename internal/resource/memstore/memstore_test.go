// internal/resource/memstore/memstore_test.go
//
// Run: go test ./internal/resource/memstore -v

package memstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yanizio/objview/internal/resource"
)

const tree = `
nodes:
  - path: /
    primaryType: page
    properties: { title: Home }
  - path: /blog
    primaryType: folder
  - path: /blog/hello/
    primaryType: page
    properties:
      resourceType: blog/post
      title: Hello
      tags: [go, templates]
  - path: blog/second
    primaryType: page
`

type post struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
}

func (*post) TypeName() string { return "blog.Post" }

func TestParse_TreeAndChildren(t *testing.T) {
	s, err := Parse([]byte(tree), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []string{"/", "/blog", "/blog/hello", "/blog/second"}
	if diff := cmp.Diff(want, s.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	r, err := s.Resolve(context.Background(), "/blog/")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	np, ok := resource.NodeOf(r)
	if !ok {
		t.Fatalf("memstore resource lacks NodeProvider")
	}
	if diff := cmp.Diff([]string{"hello", "second"}, np.Node().Children); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}
	if _, ok := resource.ObjectOf(r); ok {
		t.Fatalf("no mapper registered, ObjectProvider should be absent")
	}
}

func TestParse_MapperAddsObjectProvider(t *testing.T) {
	m := resource.NewMappers()
	m.Register("blog/post", resource.Decode(func() *post { return &post{} }))

	s, err := Parse([]byte(tree), m)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r, err := s.Resolve(context.Background(), "/blog/hello")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.ResourceType() != "blog/post" {
		t.Fatalf("ResourceType = %q, want blog/post", r.ResourceType())
	}
	op, ok := resource.ObjectOf(r)
	if !ok {
		t.Fatalf("mapped resource lacks ObjectProvider")
	}
	got := op.Object().(*post)
	want := &post{Title: "Hello", Tags: []string{"go", "templates"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("object mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_NotFound(t *testing.T) {
	s, _ := Parse([]byte(tree), nil)
	if _, err := s.Resolve(context.Background(), "/nope"); !errors.Is(err, resource.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing path": "nodes:\n  - primaryType: page\n",
		"duplicate":    "nodes:\n  - path: /a\n  - path: /a/\n",
		"bad yaml":     "nodes: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc), nil); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tree.yaml")
	if err := os.WriteFile(file, []byte(tree), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(file, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.TypeName() != TypeName {
		t.Fatalf("TypeName = %q", s.TypeName())
	}
}

func TestAliases(t *testing.T) {
	doc := `
nodes:
  - path: /blog/hello
    properties: { alias: /hello }
  - path: /about/team
    properties:
      alias: [/team, "people/"]
`
	s, err := Parse([]byte(doc), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, _ := s.Aliases(context.Background())
	want := map[string]string{
		"/hello":  "/blog/hello",
		"/team":   "/about/team",
		"/people": "/about/team",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("aliases mismatch (-want +got):\n%s", diff)
	}

	clash := "nodes:\n  - path: /a\n    properties: { alias: /x }\n  - path: /b\n    properties: { alias: /x }\n"
	if _, err := Parse([]byte(clash), nil); err == nil {
		t.Fatalf("expected error for alias claimed twice")
	}
}
