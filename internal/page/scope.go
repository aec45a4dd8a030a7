// internal/page/scope.go
//
// Scope is the per-render variable namespace templates read from.
//
// Writes keep insertion order: a name keeps the slot of its first write even
// when a later write replaces the value.  Names() and Map() are therefore
// stable for a given sequence of writes, which keeps debug output and tests
// deterministic.
package page

// Scope is not safe for concurrent writes; one render owns one Scope.
type Scope struct {
	order []string
	vars  map[string]any
}

// NewScope returns an empty Scope.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]any, 16)}
}

// Set writes name.  An existing name is overwritten in place.
func (s *Scope) Set(name string, v any) {
	if _, ok := s.vars[name]; !ok {
		s.order = append(s.order, name)
	}
	s.vars[name] = v
}

// Get returns the value under name.
func (s *Scope) Get(name string) (any, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Remove deletes name and reports whether it existed.
func (s *Scope) Remove(name string) bool {
	if _, ok := s.vars[name]; !ok {
		return false
	}
	delete(s.vars, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Names lists variable names in first-write order.
func (s *Scope) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len reports the number of variables.
func (s *Scope) Len() int { return len(s.vars) }

// Map returns a copy suitable as html/template data.
func (s *Scope) Map() map[string]any {
	out := make(map[string]any, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}
