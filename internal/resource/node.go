// internal/resource/node.go
//
// Node is the structural unit behind a resource: a path, a primary type,
// a property bag, and the names of its children.  Stores build Nodes; the
// NodeResource and MappedResource types below wrap them as Resources.
package resource

import "sort"

// PropResourceType is the property that overrides a node's resource type.
const PropResourceType = "resourceType"

// PropAlias lists vanity paths that rewrite to the node.
const PropAlias = "alias"

// Node mirrors one content node.  Treat it as read-only once published.
type Node struct {
	Path        string         `yaml:"path"`
	PrimaryType string         `yaml:"primaryType"`
	Properties  map[string]any `yaml:"properties"`
	Children    []string       `yaml:"children"`
}

// Property returns the named property and whether it is present.
func (n *Node) Property(name string) (any, bool) {
	if n == nil || n.Properties == nil {
		return nil, false
	}
	v, ok := n.Properties[name]
	return v, ok
}

// StringProperty returns a property as a string, or "" when absent or not
// a string.
func (n *Node) StringProperty(name string) string {
	v, _ := n.Property(name)
	s, _ := v.(string)
	return s
}

// PropertyNames lists property keys in sorted order.
func (n *Node) PropertyNames() []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Properties))
	for k := range n.Properties {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ResourceType prefers the resourceType property and falls back to the
// primary type.
func (n *Node) ResourceType() string {
	if rt := n.StringProperty(PropResourceType); rt != "" {
		return rt
	}
	return n.PrimaryType
}

//
// Node-backed resources
//

// NodeResource is a Resource that always exposes its Node.
type NodeResource struct {
	node *Node
}

// NewNodeResource wraps n.
func NewNodeResource(n *Node) *NodeResource { return &NodeResource{node: n} }

func (r *NodeResource) Path() string         { return r.node.Path }
func (r *NodeResource) ResourceType() string { return r.node.ResourceType() }
func (r *NodeResource) Node() *Node          { return r.node }

// MappedResource adds the ObjectProvider capability to a NodeResource.
type MappedResource struct {
	*NodeResource
	obj MappedObject
}

// NewMappedResource wraps n and the object decoded from it.
func NewMappedResource(n *Node, obj MappedObject) *MappedResource {
	return &MappedResource{NodeResource: NewNodeResource(n), obj: obj}
}

func (r *MappedResource) Object() MappedObject { return r.obj }

// compile-time assertions
var (
	_ NodeProvider   = (*NodeResource)(nil)
	_ NodeProvider   = (*MappedResource)(nil)
	_ ObjectProvider = (*MappedResource)(nil)
)
