package comparator

import (
	"github.com/stratumlabs/stratum/pkg/domain"
)

func (r *Registry) registerNumericFamily() {
	r.register(domain.OpNumericEquals, numericCompare(func(a, b float64) bool { return a == b }))
	r.register(domain.OpNumericNotEquals, numericCompare(func(a, b float64) bool { return a != b }))
	r.register(domain.OpGreaterThan, numericCompare(func(a, b float64) bool { return a > b }))
	r.register(domain.OpGreaterThanOrEqual, numericCompare(func(a, b float64) bool { return a >= b }))
	r.register(domain.OpLessThan, numericCompare(func(a, b float64) bool { return a < b }))
	r.register(domain.OpLessThanOrEqual, numericCompare(func(a, b float64) bool { return a <= b }))

	r.register(domain.OpBetween, func(_ *Env, value, operand any) (bool, error) {
		v, ok := asFloat64(value)
		if !ok {
			return false, nil
		}

		lo, hi, ok := asPair(operand)
		if !ok {
			return false, nil
		}

		min, okMin := asFloat64(lo)
		max, okMax := asFloat64(hi)
		if !okMin || !okMax {
			return false, nil
		}

		// Inclusive on both ends.
		return v >= min && v <= max, nil
	})
}

// numericCompare coerces both sides to float64; a non-numeric side fails
// the condition rather than erroring.
func numericCompare(cmp func(a, b float64) bool) Func {
	return func(_ *Env, value, operand any) (bool, error) {
		a, okA := asFloat64(value)
		b, okB := asFloat64(operand)
		if !okA || !okB {
			return false, nil
		}
		return cmp(a, b), nil
	}
}
