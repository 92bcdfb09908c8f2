package domain

import (
	"time"
)

// Identity is an authenticated-identity reference carried by the evaluation
// context. The user resolver consults its well-known fields as a fallback.
type Identity struct {
	ID    string
	Email string
}

// EvaluationContext carries the caller-supplied inputs for one resolution
// call. It is read-only for the engine except for the attribute memo, which
// is owned by the single resolution and never shared.
type EvaluationContext struct {
	TenantID string

	// Scope is the caller's representation of the requesting entity: a map,
	// an arbitrary object, or a scalar.
	Scope any

	Identity *Identity

	// Attributes is the request-local attribute bag checked first by the
	// user resolver, letting callers short-circuit expensive lookups.
	Attributes map[string]any

	// Now is the evaluation time used by activation windows and the
	// date_time resolver.
	Now time.Time

	// Memo caches computed attribute maps (geocoding, user agent) per scope
	// within this resolution only.
	Memo *AttributeMemo
}

// AttributeMemo memoizes one computed attribute map per resolver namespace,
// keyed by a fingerprint of the scope it was computed for. It is scoped to a
// single resolution call and is not safe for concurrent use; each resolution
// owns its own memo.
type AttributeMemo struct {
	entries map[string]memoEntry
}

type memoEntry struct {
	fingerprint string
	attrs       map[string]any
}

// NewAttributeMemo creates an empty memo.
func NewAttributeMemo() *AttributeMemo {
	return &AttributeMemo{entries: make(map[string]memoEntry)}
}

// Lookup returns the memoized attribute map for the namespace if it was
// computed for the same scope fingerprint.
func (m *AttributeMemo) Lookup(namespace, fingerprint string) (map[string]any, bool) {
	if m == nil {
		return nil, false
	}
	entry, ok := m.entries[namespace]
	if !ok || entry.fingerprint != fingerprint {
		return nil, false
	}
	return entry.attrs, true
}

// Store memoizes the attribute map for the namespace, replacing any entry
// computed for a different scope.
func (m *AttributeMemo) Store(namespace, fingerprint string, attrs map[string]any) {
	if m == nil {
		return
	}
	m.entries[namespace] = memoEntry{fingerprint: fingerprint, attrs: attrs}
}
