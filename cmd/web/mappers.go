package main

import "github.com/yanizio/objview/internal/resource"

// Post is the mapped object for blog/post resources.
type Post struct {
	Title  string   `yaml:"title"`
	Author string   `yaml:"author"`
	Tags   []string `yaml:"tags"`
}

func (*Post) TypeName() string { return "objview.BlogPost" }

// registerMappers installs the domain types this binary knows about.
func registerMappers(m *resource.Mappers) {
	m.Register("blog/post", resource.Decode(func() *Post { return &Post{} }))
}
