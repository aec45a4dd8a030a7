// internal/view/render.go
//
// Central view engine: template lookup by resource type, func-map
// injection, define-objects binding, and an LRU of parsed
// *template.Template* sets.
//
// Lookup precedence (first hit wins):
//   1. <templates>/<resourceType>/<name>.html
//   2. <templates>/default/<name>.html
//
// All templates in the same directory are parsed as one set so sub-templates
// ({{ template "row" . }}) work out-of-the-box.
//
// Rendering
// ---------
// Render builds a page.Context from the request, runs the binder, and
// executes the template with Scope().Map() as data, so templates reach the
// bound objects as {{ .resource }}, {{ .node }}, {{ .serviceLocator }},
// and so on.  Output is buffered; a template error never leaves a
// half-written page.
//
// execName() chooses the template to execute:
//   – If the set contains "<name>.html", we run that (file has no define).
//   – Else we fall back to "<name>" (root template defined via {{ define }}).
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/objview/internal/cache"
	"github.com/yanizio/objview/internal/defineobjects"
	"github.com/yanizio/objview/internal/metrics"
	"github.com/yanizio/objview/internal/page"
	"github.com/yanizio/objview/internal/request"
)

// DefaultDir is the fallback template directory under the root.
const DefaultDir = "default"

// DefaultName is the view rendered when the path carries no selector.
const DefaultName = "page"

// ErrTemplateNotFound means neither the resource-type nor the default
// directory holds the template.
var ErrTemplateNotFound = errors.New("view: template not found")

//
// engine
//

// Engine renders resources.  Safe for concurrent use.
type Engine struct {
	root   string
	binder *defineobjects.Binder
	sets   *cache.LRU[string, *template.Template]
}

// New returns an Engine reading templates under root.  cacheSize bounds the
// number of parsed sets kept; values below 1 disable caching.
func New(root string, binder *defineobjects.Binder, cacheSize int) *Engine {
	e := &Engine{root: root, binder: binder}
	if cacheSize > 0 {
		e.sets = cache.New[string, *template.Template](cacheSize)
	}
	return e
}

// Binder returns the binder Render runs.
func (e *Engine) Binder() *defineobjects.Binder { return e.binder }

//
// public helpers
//

// Render binds the define-objects into a fresh page scope and executes
// template name for the current resource.  r must have passed through
// request.Resolve.
func (e *Engine) Render(w http.ResponseWriter, r *http.Request, name string) error {
	pc := page.FromHTTP(r)
	if _, err := e.binder.Bind(pc); err != nil {
		return fmt.Errorf("bind %s: %w", r.URL.Path, err)
	}

	req, _ := pc.Request()
	rt := ""
	if res := req.Resource(); res != nil {
		rt = res.ResourceType()
	}

	t, err := e.Lookup(rt, name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), pc.Scope().Map()); err != nil {
		return fmt.Errorf("execute %s/%s: %w", rt, name, err)
	}

	out := w
	if res, ok := pc.Response(); ok {
		out = res
	}
	if out.Header().Get("Content-Type") == "" {
		out.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, err = buf.WriteTo(out)
	return err
}

// ViewName picks the template for a request: the first selector, else
// DefaultName.
func ViewName(req *request.Request) string {
	if len(req.PathInfo.Selectors) > 0 {
		return req.PathInfo.Selectors[0]
	}
	return DefaultName
}

// Lookup returns the parsed set holding name for resourceType.
func (e *Engine) Lookup(resourceType, name string) (*template.Template, error) {
	dir, ok := typeDir(resourceType)
	if !ok {
		dir = DefaultDir
	}
	key := dir + "::" + name
	if e.sets != nil {
		if t, ok := e.sets.Get(key); ok {
			return t, nil
		}
	}

	candidates := []string{filepath.Join(e.root, dir, name+".html")}
	if dir != DefaultDir {
		candidates = append(candidates, filepath.Join(e.root, DefaultDir, name+".html"))
	}

	var base string
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			base = p
			break
		}
	}
	if base == "" {
		return nil, fmt.Errorf("%w: %s for %q", ErrTemplateNotFound, name, resourceType)
	}

	// Parse all *.html in the same directory so sub-templates work.
	pattern := filepath.Join(filepath.Dir(base), "*.html")
	t, err := template.New(name).Funcs(funcMap()).ParseGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pattern, err)
	}
	metrics.TemplateParseTotal.Inc()
	zap.S().Debugw("template set parsed", "dir", filepath.Dir(base), "resource_type", resourceType)

	if e.sets != nil {
		e.sets.Add(key, t)
	}
	return t, nil
}

// Purge drops every cached set, e.g. after templates change on disk.
func (e *Engine) Purge() {
	if e.sets != nil {
		e.sets.Purge()
	}
}

//
// helpers
//

// typeDir maps a resource type such as "blog/post" to a relative
// directory.  Empty, absolute, or escaping types report false.
func typeDir(rt string) (string, bool) {
	if rt == "" || strings.HasPrefix(rt, "/") {
		return "", false
	}
	clean := path.Clean(rt)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return filepath.FromSlash(clean), true
}

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has "<name>.html" (file-based template), run that.
//  2. Otherwise, fall back to "<name>" (root template defined in code).
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}
