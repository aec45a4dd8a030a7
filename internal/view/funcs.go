// internal/view/funcs.go
//
// Template func-map.
//
//	{{ dict "k" 1 "k2" "v" }}        – ad-hoc map for sub-templates.
//	{{ prop .resource "title" }}     – property on a resource or node.
//	{{ typeName .object }}           – TypeName() of mapped objects and
//	                                   managers, Go type otherwise.
package view

import (
	"fmt"
	"html/template"

	"github.com/yanizio/objview/internal/resource"
)

func funcMap() template.FuncMap {
	fm := template.FuncMap{
		"dict":     dict,
		"prop":     prop,
		"typeName": typeName,
	}
	for k, v := range uaFuncMap() {
		fm[k] = v
	}
	return fm
}

// dict builds a map in templates.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// prop returns a node property, or nil when v has no node.
func prop(v any, name string) any {
	var n *resource.Node
	switch x := v.(type) {
	case *resource.Node:
		n = x
	case resource.Resource:
		if np, ok := resource.NodeOf(x); ok {
			n = np.Node()
		}
	}
	if n == nil {
		return nil
	}
	val, _ := n.Property(name)
	return val
}

type typeNamer interface{ TypeName() string }

func typeName(v any) string {
	if v == nil {
		return ""
	}
	if tn, ok := v.(typeNamer); ok {
		return tn.TypeName()
	}
	return fmt.Sprintf("%T", v)
}
