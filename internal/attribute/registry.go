// Package attribute implements the pluggable lookups that answer whether an
// attribute exists for a condition's namespace and what its value is.
// Resolvers are registered by condition type; resolving an unregistered type
// is a configuration error, not a silent non-match.
package attribute

import (
	"fmt"

	"github.com/stratumlabs/stratum/pkg/domain"
)

// Resolver answers (value, exists) for an attribute name against an
// evaluation context.
type Resolver interface {
	Resolve(ec *domain.EvaluationContext, attribute string) (value any, exists bool)
}

// Registry maps condition types to their resolvers. Built at engine setup,
// read-only afterwards.
type Registry struct {
	resolvers map[string]Resolver
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

// Register binds a resolver to a condition type.
func (r *Registry) Register(conditionType string, resolver Resolver) error {
	if conditionType == "" {
		return domain.NewConfigError("condition_type", "condition type cannot be empty")
	}
	if resolver == nil {
		return domain.NewConfigError("condition_type", fmt.Sprintf("nil resolver for type %q", conditionType))
	}
	r.resolvers[conditionType] = resolver
	return nil
}

// Lookup returns the resolver for a condition type.
func (r *Registry) Lookup(conditionType string) (Resolver, bool) {
	resolver, ok := r.resolvers[conditionType]
	return resolver, ok
}
