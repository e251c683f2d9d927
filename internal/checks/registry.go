package checks

import "fmt"

// DefaultRegistry is a simple, ordered, in-memory registry.
// All returns checks in registration order.
// Register panics on duplicate check IDs to catch wiring mistakes at startup.
type DefaultRegistry struct {
	checks []Check
	index  map[string]struct{}
}

// NewDefaultRegistry returns an empty registry ready for check registration.
func NewDefaultRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		index: make(map[string]struct{}),
	}
}

// Register adds check to the registry. Panics if the same ID is registered twice.
func (r *DefaultRegistry) Register(check Check) {
	if _, exists := r.index[check.ID()]; exists {
		panic(fmt.Sprintf("duplicate check ID: %q", check.ID()))
	}
	r.checks = append(r.checks, check)
	r.index[check.ID()] = struct{}{}
}

// All returns all registered checks in registration order.
func (r *DefaultRegistry) All() []Check {
	return r.checks
}
