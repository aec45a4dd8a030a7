// internal/resource/mapper.go
//
// Object-mapper registry.
//
// Context
// -------
// A resource maps onto a domain object only when a MapFunc is registered for
// its resource type.  Stores call Mappers.Build for every node they load, so
// the ObjectProvider capability appears (or not) purely as a function of the
// registry contents.
//
// Decode is the stock MapFunc factory: it round-trips the node's property
// bag through YAML into a fresh T, so domain structs only need `yaml` tags.
//
// Notes
// -----
// • Registration normally happens in main() before the first request.  The
//   registry is still guarded so tests may register concurrently.
// • Oxford commas, two spaces after periods.
package resource

import (
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// MapFunc decodes a node into its domain object.
type MapFunc func(n *Node) (MappedObject, error)

// Mappers is a resourceType → MapFunc registry.  The zero value is not
// usable; construct with NewMappers.
type Mappers struct {
	mu sync.RWMutex
	m  map[string]MapFunc
}

// NewMappers returns an empty registry.
func NewMappers() *Mappers {
	return &Mappers{m: make(map[string]MapFunc)}
}

// Register binds fn to resourceType.  A later call for the same type
// replaces the earlier one.
func (m *Mappers) Register(resourceType string, fn MapFunc) {
	m.mu.Lock()
	m.m[resourceType] = fn
	m.mu.Unlock()
}

// Lookup returns the MapFunc for resourceType or nil.
func (m *Mappers) Lookup(resourceType string) MapFunc {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.m[resourceType]
}

// Build wraps n as a Resource.  Nodes whose type has a mapper come back as
// *MappedResource; everything else as *NodeResource.
func (m *Mappers) Build(n *Node) (Resource, error) {
	fn := m.Lookup(n.ResourceType())
	if fn == nil {
		return NewNodeResource(n), nil
	}
	obj, err := fn(n)
	if err != nil {
		return nil, fmt.Errorf("map %s (%s): %w", n.Path, n.ResourceType(), err)
	}
	return NewMappedResource(n, obj), nil
}

// Decode returns a MapFunc that decodes node properties into a new T.
// newT must return a pointer so yaml can populate it.
func Decode[T MappedObject](newT func() T) MapFunc {
	return func(n *Node) (MappedObject, error) {
		raw, err := yaml.Marshal(n.Properties)
		if err != nil {
			return nil, err
		}
		obj := newT()
		if err := yaml.Unmarshal(raw, obj); err != nil {
			return nil, err
		}
		return obj, nil
	}
}
