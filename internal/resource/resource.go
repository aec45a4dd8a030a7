// internal/resource/resource.go
//
// Resource model and capability queries.
//
// Context
// -------
// A Resource is the addressable content unit a request resolves to.  Two
// optional capabilities sit on top of the bare contract:
//
//   - NodeProvider   – exposes the structural Node backing the resource.
//   - ObjectProvider – exposes a MappedObject decoded from that node.
//
// Capabilities are plain interfaces.  Callers never type-switch on concrete
// resource types; they ask NodeOf / ObjectOf, which also consult Adaptable
// so a wrapping resource can forward capabilities it does not implement
// itself.
//
// Notes
// -----
// • Managers and mapped objects carry a TypeName() string.  It is the
//   identifier published to templates, so keep it stable across releases.
// • Oxford commas, two spaces after periods.
package resource

import (
	"context"
	"errors"
)

// ManagerTypeName is the fully qualified name of the Manager interface.  It
// doubles as the default variable name for a manager's type identifier.
const ManagerTypeName = "github.com/yanizio/objview/internal/resource.Manager"

// ErrNotFound is returned by a Manager when no resource lives at a path.
var ErrNotFound = errors.New("resource not found")

// Resource is the minimal contract every resolved resource satisfies.
type Resource interface {
	Path() string
	ResourceType() string
}

// NodeProvider is implemented by resources backed by a structural Node.
type NodeProvider interface {
	Node() *Node
}

// MappedObject is a domain value decoded from a resource.  TypeName returns
// a stable, human-readable identifier such as "blog.Post".
type MappedObject interface {
	TypeName() string
}

// ObjectProvider is implemented by resources that map onto a domain object.
type ObjectProvider interface {
	Object() MappedObject
}

// Manager resolves paths to resources.  Implementations must be safe for
// concurrent use; one Manager serves every request.
type Manager interface {
	Resolve(ctx context.Context, path string) (Resource, error)
	TypeName() string
}

// Capability names an optional facet a resource may expose.
type Capability int

const (
	CapNode Capability = iota
	CapObject
)

func (c Capability) String() string {
	switch c {
	case CapNode:
		return "node"
	case CapObject:
		return "object"
	default:
		return "unknown"
	}
}

// Adaptable lets a resource hand out a capability it does not implement
// directly, e.g. a decorator forwarding to the resource it wraps.  Adapt
// returns a value implementing the interface that matches c.
type Adaptable interface {
	Adapt(c Capability) (any, bool)
}

// NodeOf returns the NodeProvider facet of r, if any.
func NodeOf(r Resource) (NodeProvider, bool) {
	if r == nil {
		return nil, false
	}
	if p, ok := r.(NodeProvider); ok {
		return p, true
	}
	if a, ok := r.(Adaptable); ok {
		if v, ok := a.Adapt(CapNode); ok {
			p, ok := v.(NodeProvider)
			return p, ok
		}
	}
	return nil, false
}

// ObjectOf returns the ObjectProvider facet of r, if any.
func ObjectOf(r Resource) (ObjectProvider, bool) {
	if r == nil {
		return nil, false
	}
	if p, ok := r.(ObjectProvider); ok {
		return p, true
	}
	if a, ok := r.(Adaptable); ok {
		if v, ok := a.Adapt(CapObject); ok {
			p, ok := v.(ObjectProvider)
			return p, ok
		}
	}
	return nil, false
}
