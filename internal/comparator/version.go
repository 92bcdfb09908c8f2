package comparator

import (
	"strings"

	"golang.org/x/mod/semver"

	"github.com/stratumlabs/stratum/pkg/domain"
)

func (r *Registry) registerVersionFamily() {
	r.register(domain.OpVersionEquals, versionCompare(func(c int) bool { return c == 0 }))
	r.register(domain.OpVersionNotEquals, versionCompare(func(c int) bool { return c != 0 }))
	r.register(domain.OpVersionGreaterThan, versionCompare(func(c int) bool { return c > 0 }))
	r.register(domain.OpVersionGreaterThanOrEqual, versionCompare(func(c int) bool { return c >= 0 }))
	r.register(domain.OpVersionLessThan, versionCompare(func(c int) bool { return c < 0 }))
	r.register(domain.OpVersionLessThanOrEqual, versionCompare(func(c int) bool { return c <= 0 }))

	r.register(domain.OpVersionBetween, func(_ *Env, value, operand any) (bool, error) {
		v, ok := canonicalVersion(value)
		if !ok {
			return false, nil
		}

		lo, hi, ok := asPair(operand)
		if !ok {
			return false, nil
		}

		min, okMin := canonicalVersion(lo)
		max, okMax := canonicalVersion(hi)
		if !okMin || !okMax {
			return false, nil
		}

		return semver.Compare(v, min) >= 0 && semver.Compare(v, max) <= 0, nil
	})
}

// versionCompare orders by semantic-version segments, not lexically, so
// "1.10.0" sorts above "1.9.0". Unparsable versions fail the condition.
func versionCompare(cmp func(c int) bool) Func {
	return func(_ *Env, value, operand any) (bool, error) {
		a, okA := canonicalVersion(value)
		b, okB := canonicalVersion(operand)
		if !okA || !okB {
			return false, nil
		}
		return cmp(semver.Compare(a, b)), nil
	}
}

// canonicalVersion normalizes to the "vMAJOR.MINOR.PATCH" form semver
// expects. Missing minor/patch segments are filled with zeros.
func canonicalVersion(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}

	// Pad short forms like "1" and "1.2".
	base := s
	if i := strings.IndexAny(base, "-+"); i >= 0 {
		base = base[:i]
	}
	switch strings.Count(base, ".") {
	case 0:
		s = base + ".0.0" + s[len(base):]
	case 1:
		s = base + ".0" + s[len(base):]
	}

	if !semver.IsValid(s) {
		return "", false
	}
	return s, true
}
