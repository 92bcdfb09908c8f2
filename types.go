package stratum

import (
	"time"

	"github.com/stratumlabs/stratum/pkg/domain"
)

// Context holds the caller-supplied inputs for one resolution.
type Context struct {
	// TenantID selects the tenant namespace settings are looked up in.
	TenantID string

	// Scope is the requesting entity as the caller models it: a map of
	// properties, an arbitrary struct, or a scalar such as a user ID.
	Scope any

	// Identity optionally names the authenticated caller. Its ID doubles as
	// the default rollout bucketing identifier.
	Identity *domain.Identity

	// Attributes is a request-local attribute bag consulted before the
	// scope, letting callers pre-compute or override values.
	Attributes map[string]any

	// Now pins the evaluation time. Zero means the engine clock.
	Now time.Time
}

// NewContext creates an evaluation context for the given scope.
func NewContext(scope any) Context {
	return Context{
		Scope:      scope,
		Attributes: make(map[string]any),
	}
}

// WithTenant sets the tenant namespace (fluent interface).
func (c Context) WithTenant(tenantID string) Context {
	c.TenantID = tenantID
	return c
}

// WithIdentity sets the authenticated identity (fluent interface).
func (c Context) WithIdentity(id, email string) Context {
	c.Identity = &domain.Identity{ID: id, Email: email}
	return c
}

// WithAttribute adds a request-local attribute (fluent interface).
func (c Context) WithAttribute(key string, value any) Context {
	if c.Attributes == nil {
		c.Attributes = make(map[string]any)
	}
	c.Attributes[key] = value
	return c
}

// At pins the evaluation time (fluent interface).
func (c Context) At(t time.Time) Context {
	c.Now = t
	return c
}

func toDomainContext(c Context) *domain.EvaluationContext {
	return &domain.EvaluationContext{
		TenantID:   c.TenantID,
		Scope:      c.Scope,
		Identity:   c.Identity,
		Attributes: c.Attributes,
		Now:        c.Now,
	}
}
