package comparator

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/stratumlabs/stratum/pkg/domain"
)

func (r *Registry) registerStringFamily() {
	r.register(domain.OpEquals, func(_ *Env, value, operand any) (bool, error) {
		return asString(value) == asString(operand), nil
	})

	r.register(domain.OpNotEquals, func(_ *Env, value, operand any) (bool, error) {
		return asString(value) != asString(operand), nil
	})

	r.register(domain.OpContainsAny, anyCandidate(strings.Contains))
	r.register(domain.OpNotContainsAny, negate(anyCandidate(strings.Contains)))
	r.register(domain.OpStartsWithAny, anyCandidate(strings.HasPrefix))
	r.register(domain.OpEndsWithAny, anyCandidate(strings.HasSuffix))

	r.register(domain.OpMatchesRegex, r.matchesRegex)
}

// anyCandidate builds a comparator that succeeds when the value matches any
// candidate of the operand array under the given string predicate.
func anyCandidate(match func(value, candidate string) bool) Func {
	return func(_ *Env, value, operand any) (bool, error) {
		candidates, ok := asSlice(operand)
		if !ok {
			return false, nil
		}

		s := asString(value)
		for _, candidate := range candidates {
			if match(s, asString(candidate)) {
				return true, nil
			}
		}
		return false, nil
	}
}

func negate(fn Func) Func {
	return func(env *Env, value, operand any) (bool, error) {
		matched, err := fn(env, value, operand)
		if err != nil {
			return false, err
		}
		return !matched, nil
	}
}

// matchesRegex evaluates a single-pattern regex match through the expression
// engine. Compiled programs are cached by source so repeated evaluations of
// the same pattern skip compilation. An invalid pattern fails the condition.
func (r *Registry) matchesRegex(_ *Env, value, operand any) (bool, error) {
	pattern, ok := operand.(string)
	if !ok {
		return false, nil
	}

	source := fmt.Sprintf(`value matches %q`, pattern)
	vars := map[string]any{"value": asString(value)}

	r.programsMu.RLock()
	program, cached := r.programs[source]
	r.programsMu.RUnlock()

	if !cached {
		compiled, err := expr.Compile(source, expr.Env(vars), expr.AsBool())
		if err != nil {
			return false, nil
		}
		r.programsMu.Lock()
		r.programs[source] = compiled
		r.programsMu.Unlock()
		program = compiled
	}

	result, err := expr.Run(program, vars)
	if err != nil {
		return false, nil
	}

	matched, ok := result.(bool)
	if !ok {
		return false, nil
	}
	return matched, nil
}
