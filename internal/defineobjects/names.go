// internal/defineobjects/names.go
//
// Variable names the binder publishes under.
//
// Context
// -------
// Every role has a default name.  Callers override any subset via the
// setters or the `objects` config section before binding.  The one
// optional field is MappedObjectType: while it is empty the mapped-object
// pair is never published, whatever the resource can do.
//
// Two roles may share a name.  That is allowed; the later role in the fixed
// binding order wins, and Collisions reports the overlap so the binder can
// warn at construction time.
//
// Notes
// -----
// • Struct tags use `koanf:"…"` so config.Load can unmarshal the section
//   straight into Names.
// • Oxford commas, two spaces after periods.
package defineobjects

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/yanizio/objview/internal/resource"
)

// Default variable names.
const (
	DefaultRequestName             = "slingRequest"
	DefaultResponseName            = "slingResponse"
	DefaultResourceName            = "resource"
	DefaultNodeName                = "node"
	DefaultMappedObjectName        = "object"
	DefaultResourceManagerName     = "resourceManager"
	DefaultResourceManagerTypeName = resource.ManagerTypeName
	DefaultServiceLocatorName      = "serviceLocator"
)

// ErrInvalidNames is returned when a required name is empty.
var ErrInvalidNames = errors.New("defineobjects: invalid variable names")

// Role is one well-known binding.
type Role string

// Roles in binding order.
const (
	RoleRequest             Role = "request"
	RoleResponse            Role = "response"
	RoleResource            Role = "resource"
	RoleResourceManager     Role = "resource-manager"
	RoleResourceManagerType Role = "resource-manager-type-name"
	RoleServiceLocator      Role = "service-locator"
	RoleNode                Role = "node"
	RoleMappedObject        Role = "mapped-object"
	RoleMappedObjectType    Role = "mapped-object-type-name"
)

// Names maps each role to its target variable name.
type Names struct {
	Request             string `koanf:"request_name"               validate:"required"`
	Response            string `koanf:"response_name"              validate:"required"`
	Resource            string `koanf:"resource_name"              validate:"required"`
	Node                string `koanf:"node_name"                  validate:"required"`
	MappedObject        string `koanf:"mapped_object_name"         validate:"required"`
	MappedObjectType    string `koanf:"mapped_object_type_name"` // optional, gates the mapped pair
	ResourceManager     string `koanf:"resource_manager_name"      validate:"required"`
	ResourceManagerType string `koanf:"resource_manager_type_name" validate:"required"`
	ServiceLocator      string `koanf:"service_locator_name"       validate:"required"`
}

// DefaultNames returns the stock configuration.  MappedObjectType is unset.
func DefaultNames() Names {
	return Names{
		Request:             DefaultRequestName,
		Response:            DefaultResponseName,
		Resource:            DefaultResourceName,
		Node:                DefaultNodeName,
		MappedObject:        DefaultMappedObjectName,
		ResourceManager:     DefaultResourceManagerName,
		ResourceManagerType: DefaultResourceManagerTypeName,
		ServiceLocator:      DefaultServiceLocatorName,
	}
}

//
// setters
//

func (n *Names) SetRequestName(name string)             { n.Request = name }
func (n *Names) SetResponseName(name string)            { n.Response = name }
func (n *Names) SetResourceName(name string)            { n.Resource = name }
func (n *Names) SetNodeName(name string)                { n.Node = name }
func (n *Names) SetMappedObjectName(name string)        { n.MappedObject = name }
func (n *Names) SetMappedObjectTypeName(name string)    { n.MappedObjectType = name }
func (n *Names) SetResourceManagerName(name string)     { n.ResourceManager = name }
func (n *Names) SetResourceManagerTypeName(name string) { n.ResourceManagerType = name }
func (n *Names) SetServiceLocatorName(name string)      { n.ServiceLocator = name }

// MapsObjects reports whether the mapped-object pair can be published.
func (n Names) MapsObjects() bool { return n.MappedObjectType != "" }

//
// validation
//

var validate = validator.New()

// Validate returns ErrInvalidNames, wrapped with the offending fields, when
// a required name is empty.
func (n Names) Validate() error {
	if err := validate.Struct(n); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return fmt.Errorf("%w: empty %v", ErrInvalidNames, fields)
		}
		return fmt.Errorf("%w: %v", ErrInvalidNames, err)
	}
	return nil
}

// Binding is one (role, variable name) pair.
type Binding struct {
	Role Role
	Name string
}

// Bindings lists every configured pair in binding order.  The mapped-object
// pair is included only when MapsObjects is true.
func (n Names) Bindings() []Binding {
	out := []Binding{
		{RoleRequest, n.Request},
		{RoleResponse, n.Response},
		{RoleResource, n.Resource},
		{RoleResourceManager, n.ResourceManager},
		{RoleResourceManagerType, n.ResourceManagerType},
		{RoleServiceLocator, n.ServiceLocator},
		{RoleNode, n.Node},
	}
	if n.MapsObjects() {
		out = append(out,
			Binding{RoleMappedObject, n.MappedObject},
			Binding{RoleMappedObjectType, n.MappedObjectType})
	}
	return out
}

// Collision reports roles sharing one variable name.  Roles are in binding
// order, so the last one wins.
type Collision struct {
	Name  string
	Roles []Role
}

// Collisions lists shared names in order of first appearance.
func (n Names) Collisions() []Collision {
	byName := make(map[string][]Role)
	var order []string
	for _, b := range n.Bindings() {
		if _, seen := byName[b.Name]; !seen {
			order = append(order, b.Name)
		}
		byName[b.Name] = append(byName[b.Name], b.Role)
	}
	var out []Collision
	for _, name := range order {
		if roles := byName[name]; len(roles) > 1 {
			out = append(out, Collision{Name: name, Roles: roles})
		}
	}
	return out
}
