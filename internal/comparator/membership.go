package comparator

import (
	"github.com/stratumlabs/stratum/pkg/domain"
)

func (r *Registry) registerMembershipFamily() {
	r.register(domain.OpInSegment, inSegment)
	r.register(domain.OpNotInSegment, notInSegment)

	r.register(domain.OpIsTrue, func(_ *Env, value, _ any) (bool, error) {
		b, ok := asBool(value)
		return ok && b, nil
	})

	r.register(domain.OpIsFalse, func(_ *Env, value, _ any) (bool, error) {
		b, ok := asBool(value)
		return ok && !b, nil
	})

	// is_null and is_not_null are answered by the condition evaluator from
	// attribute existence alone; these entries keep the registry complete
	// for callers enumerating operators.
	r.register(domain.OpIsNull, func(_ *Env, value, _ any) (bool, error) {
		return value == nil, nil
	})

	r.register(domain.OpIsNotNull, func(_ *Env, value, _ any) (bool, error) {
		return value != nil, nil
	})
}

// inSegment asks the segment provider whether the context identity belongs
// to the operand segment. Without a provider or identity membership cannot
// be established, so both in_segment and not_in_segment fail closed.
func inSegment(env *Env, _ any, operand any) (bool, error) {
	segment, ok := operand.(string)
	if !ok {
		return false, nil
	}
	if env.Segments == nil || env.Identity == nil {
		return false, nil
	}

	member, err := env.Segments.IsMember(env.Identity, segment)
	if err != nil {
		return false, nil
	}
	return member, nil
}

// notInSegment is the negated membership test. It still fails closed when
// membership cannot be established at all.
func notInSegment(env *Env, _ any, operand any) (bool, error) {
	segment, ok := operand.(string)
	if !ok {
		return false, nil
	}
	if env.Segments == nil || env.Identity == nil {
		return false, nil
	}

	member, err := env.Segments.IsMember(env.Identity, segment)
	if err != nil {
		return false, nil
	}
	return !member, nil
}
