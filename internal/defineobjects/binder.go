// internal/defineobjects/binder.go
//
// Define-objects binder: publishes the well-known request-scoped objects
// into a page scope.
//
/*
Context
--------
Bind runs one linear pass over a fixed list of bindings:

  1. request, response          – both resolved before either is written.
  2. resource                   – from the request.
  3. resource manager           – plus its TypeName() under the
                                  resource-manager-type-name variable.
  4. service locator            – from the request.
  5. node                       – only if the resource exposes NodeProvider.
  6. mapped object + type name  – only if MappedObjectType is configured
                                  AND the resource exposes ObjectProvider.

Failures
--------
  • ErrMissingContext – request or response absent.  Nothing is written.
  • ErrMissingService – resource manager absent.  The request, response,
    and resource variables written in steps 1–2 stay in scope; writes are
    not rolled back.

A missing capability is never an error; the binding is skipped.

Notes
-----
  • A Binder holds only its Names and is safe to share across goroutines.
    Each Bind call writes into the caller's PageContext and nothing else.
  • Re-binding the same context overwrites the same names with equivalent
    values.
  • Oxford commas, two spaces after periods.  No em dash.
*/
package defineobjects

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yanizio/objview/internal/metrics"
	"github.com/yanizio/objview/internal/request"
	"github.com/yanizio/objview/internal/resource"
)

var (
	// ErrMissingContext means the host did not supply a request or response.
	ErrMissingContext = errors.New("defineobjects: request or response missing from page context")

	// ErrMissingService means no resource manager was available.
	ErrMissingService = errors.New("defineobjects: resource manager unavailable")
)

// Eval tells the host templating layer how to proceed after Bind.
type Eval int

const (
	EvalPage Eval = iota // render the rest of the page
	SkipPage             // stop rendering; Bind never returns this
)

// PageContext is the host-owned scope the binder reads from and writes
// into.  *page.Context satisfies it.
type PageContext interface {
	Request() (*request.Request, bool)
	Response() (*request.Response, bool)
	ResourceManager() (resource.Manager, bool)
	SetAttribute(name string, v any)
}

// Binder publishes bindings under a fixed set of Names.
type Binder struct {
	names Names
}

// New validates names and returns a Binder.  Shared names are logged at
// WARN, once per Binder.
func New(names Names) (*Binder, error) {
	if err := names.Validate(); err != nil {
		return nil, err
	}
	for _, c := range names.Collisions() {
		zap.S().Warnw("define-objects roles share a variable name; last role wins",
			"name", c.Name,
			"roles", c.Roles,
			"winner", c.Roles[len(c.Roles)-1],
		)
	}
	return &Binder{names: names}, nil
}

// Bind is New(names) followed by Bind(pc).
func Bind(pc PageContext, names Names) (Eval, error) {
	b, err := New(names)
	if err != nil {
		return EvalPage, err
	}
	return b.Bind(pc)
}

// Names returns the configured names.
func (b *Binder) Names() Names { return b.names }

// Bind runs the binding pass against pc.
func (b *Binder) Bind(pc PageContext) (Eval, error) {
	metrics.BindTotal.Inc()
	n := b.names
	published := make([]string, 0, 9)
	put := func(role Role, name string, v any) {
		pc.SetAttribute(name, v)
		published = append(published, name)
		metrics.BindingsPublishedTotal.WithLabelValues(string(role)).Inc()
	}

	// 1. request and response
	req, ok := pc.Request()
	if !ok {
		return b.fail("missing_context", fmt.Errorf("resolve request: %w", ErrMissingContext))
	}
	res, ok := pc.Response()
	if !ok {
		return b.fail("missing_context", fmt.Errorf("resolve response: %w", ErrMissingContext))
	}
	put(RoleRequest, n.Request, req)
	put(RoleResponse, n.Response, res)

	// 2. resource
	current := req.Resource()
	put(RoleResource, n.Resource, current)

	// 3. resource manager
	mgr, ok := pc.ResourceManager()
	if !ok {
		return b.fail("missing_service", fmt.Errorf("resolve resource manager: %w", ErrMissingService))
	}
	put(RoleResourceManager, n.ResourceManager, mgr)
	put(RoleResourceManagerType, n.ResourceManagerType, mgr.TypeName())

	// 4. service locator
	put(RoleServiceLocator, n.ServiceLocator, req.ServiceLocator())

	// 5. node
	if np, ok := resource.NodeOf(current); ok {
		put(RoleNode, n.Node, np.Node())
	}

	// 6. mapped object
	if n.MapsObjects() {
		if op, ok := resource.ObjectOf(current); ok {
			if obj := op.Object(); obj != nil {
				put(RoleMappedObject, n.MappedObject, obj)
				put(RoleMappedObjectType, n.MappedObjectType, obj.TypeName())
			}
		}
	}

	zap.S().Debugw("define-objects bound", "names", published)
	return EvalPage, nil
}

func (b *Binder) fail(kind string, err error) (Eval, error) {
	metrics.BindErrorsTotal.WithLabelValues(kind).Inc()
	return EvalPage, err
}
