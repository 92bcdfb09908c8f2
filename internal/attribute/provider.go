package attribute

import (
	"github.com/stratumlabs/stratum/pkg/domain"
)

// ProviderResolver adapts an injected AttributeProvider (geocoding,
// user-agent) into a resolver. The provider's flat attribute map is computed
// at most once per distinct scope within a single resolution, memoized on
// the context by a fingerprint of the scope.
type ProviderResolver struct {
	namespace string
	provider  domain.AttributeProvider
}

// NewProviderResolver wraps a provider under a namespace. The namespace is
// the memoization key, so each condition type memoizes independently.
func NewProviderResolver(namespace string, provider domain.AttributeProvider) *ProviderResolver {
	return &ProviderResolver{namespace: namespace, provider: provider}
}

// Resolve returns the attribute from the provider's computed map. Provider
// failures are treated as attribute absence.
func (p *ProviderResolver) Resolve(ec *domain.EvaluationContext, attribute string) (any, bool) {
	if p.provider == nil {
		return nil, false
	}

	fp := Fingerprint(ec.Scope)

	attrs, ok := ec.Memo.Lookup(p.namespace, fp)
	if !ok {
		computed, err := p.provider.Attributes(ec.Scope)
		if err != nil {
			return nil, false
		}
		attrs = computed
		ec.Memo.Store(p.namespace, fp, attrs)
	}

	v, found := attrs[attribute]
	return v, found
}

// DateTimeResolver exposes exactly one field, "now", bound to the
// resolution's evaluation time.
type DateTimeResolver struct{}

// NewDateTimeResolver creates the date_time-namespace resolver.
func NewDateTimeResolver() *DateTimeResolver {
	return &DateTimeResolver{}
}

func (d *DateTimeResolver) Resolve(ec *domain.EvaluationContext, attribute string) (any, bool) {
	if attribute != "now" {
		return nil, false
	}
	return ec.Now, true
}
