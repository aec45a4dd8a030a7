// internal/page/context.go
//
// Page context: the per-render holder of request, response, resource
// manager, and variable scope.
//
// Context
// -------
// View code builds one *Context per render, either from an enriched
// *http.Request (FromHTTP) or field by field in tests (New).  The
// define-objects binder reads collaborators from it and writes variables
// into its Scope; the view then executes templates with Scope().Map().
//
// Accessors return (value, ok) so the binder can tell "the host never
// supplied this" from a nil value.
package page

import (
	"net/http"

	"github.com/yanizio/objview/internal/request"
	"github.com/yanizio/objview/internal/resource"
)

// Context is owned by exactly one render and discarded afterwards.
type Context struct {
	req   *request.Request
	res   *request.Response
	mgr   resource.Manager
	scope *Scope
}

// New builds a Context from explicit collaborators.  Any may be nil.
func New(req *request.Request, res *request.Response, mgr resource.Manager) *Context {
	return &Context{req: req, res: res, mgr: mgr, scope: NewScope()}
}

// FromHTTP builds a Context from values request.Resolve stored in r.
func FromHTTP(r *http.Request) *Context {
	ctx := r.Context()
	return New(request.FromContext(ctx), request.ResponseFrom(ctx), request.ManagerFrom(ctx))
}

// Request returns the current request.
func (c *Context) Request() (*request.Request, bool) { return c.req, c.req != nil }

// Response returns the current response.
func (c *Context) Response() (*request.Response, bool) { return c.res, c.res != nil }

// ResourceManager returns the resource manager.
func (c *Context) ResourceManager() (resource.Manager, bool) { return c.mgr, c.mgr != nil }

// SetAttribute writes a page-scope variable.
func (c *Context) SetAttribute(name string, v any) { c.scope.Set(name, v) }

// Attribute reads a page-scope variable.
func (c *Context) Attribute(name string) (any, bool) { return c.scope.Get(name) }

// Scope exposes the variable namespace.
func (c *Context) Scope() *Scope { return c.scope }
