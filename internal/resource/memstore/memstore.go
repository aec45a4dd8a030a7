// internal/resource/memstore/memstore.go
//
// YAML-backed resource Manager.
//
// Context
// -------
// Development setups and tests describe their content tree in one YAML file
// instead of a database:
//
//	nodes:
//	  - path: /
//	    primaryType: page
//	    properties: { title: Home }
//	  - path: /blog/hello
//	    primaryType: page
//	    properties:
//	      resourceType: blog/post
//	      title: Hello
//	      alias: /hello
//
// Parent/child links are derived from the paths, so `children` never needs
// to be written by hand.  The tree is immutable after Parse; Resolve is a
// map lookup and is safe for concurrent use.
//
// Notes
// -----
// • An `alias` property (string or list) registers vanity paths served by
//   Aliases.
// • Every node is passed through resource.Mappers.Build at load time, so a
//   mapper error fails the load rather than a later request.
// • Oxford commas, two spaces after periods.
package memstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yanizio/objview/internal/metrics"
	"github.com/yanizio/objview/internal/resource"
)

// TypeName identifies this Manager to templates.
const TypeName = "github.com/yanizio/objview/internal/resource/memstore.Store"

type document struct {
	Nodes []resource.Node `yaml:"nodes"`
}

// Store is an in-memory resource tree.
type Store struct {
	res     map[string]resource.Resource
	aliases map[string]string
}

// compile-time assertion
var _ resource.Manager = (*Store)(nil)

// Load reads and parses the YAML tree at file.
func Load(file string, mappers *resource.Mappers) (*Store, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read content tree %s: %w", file, err)
	}
	return Parse(raw, mappers)
}

// Parse builds a Store from YAML bytes.  mappers may be nil.
func Parse(raw []byte, mappers *resource.Mappers) (*Store, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse content tree: %w", err)
	}

	nodes := make(map[string]*resource.Node, len(doc.Nodes))
	for i := range doc.Nodes {
		n := doc.Nodes[i]
		if n.Path == "" {
			return nil, fmt.Errorf("content tree: node %d has no path", i)
		}
		n.Path = Clean(n.Path)
		if _, dup := nodes[n.Path]; dup {
			return nil, fmt.Errorf("content tree: duplicate path %s", n.Path)
		}
		n.Children = nil
		nodes[n.Path] = &n
	}

	// Derive children from paths; keep them sorted for stable output.
	for p, n := range nodes {
		if p == "/" {
			continue
		}
		if parent, ok := nodes[path.Dir(p)]; ok {
			parent.Children = append(parent.Children, path.Base(n.Path))
		}
	}

	s := &Store{
		res:     make(map[string]resource.Resource, len(nodes)),
		aliases: make(map[string]string),
	}
	for p, n := range nodes {
		for _, a := range aliasesOf(n) {
			a = Clean(a)
			if prev, dup := s.aliases[a]; dup && prev != p {
				return nil, fmt.Errorf("content tree: alias %s claimed by %s and %s", a, prev, p)
			}
			s.aliases[a] = p
		}
		sort.Strings(n.Children)
		r, err := mappers.Build(n)
		if err != nil {
			return nil, err
		}
		s.res[p] = r
	}
	return s, nil
}

// Resolve returns the resource at p or resource.ErrNotFound.
func (s *Store) Resolve(_ context.Context, p string) (resource.Resource, error) {
	r, ok := s.res[Clean(p)]
	if !ok {
		metrics.ResourceResolveTotal.WithLabelValues("missing").Inc()
		return nil, fmt.Errorf("%s: %w", p, resource.ErrNotFound)
	}
	metrics.ResourceResolveTotal.WithLabelValues("found").Inc()
	return r, nil
}

// Paths lists every stored path in sorted order.
func (s *Store) Paths() []string {
	out := make([]string, 0, len(s.res))
	for p := range s.res {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (s *Store) TypeName() string { return TypeName }

// Aliases returns a copy of the alias → path table.
func (s *Store) Aliases(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(s.aliases))
	for a, p := range s.aliases {
		out[a] = p
	}
	return out, nil
}

func aliasesOf(n *resource.Node) []string {
	v, ok := n.Property(resource.PropAlias)
	if !ok {
		return nil
	}
	switch x := v.(type) {
	case string:
		if x == "" {
			return nil
		}
		return []string{x}
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Clean normalises a content path: leading slash, no trailing slash, no
// dot segments.
func Clean(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
