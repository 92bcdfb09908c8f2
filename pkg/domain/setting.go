// Package domain defines the entities the resolution engine evaluates:
// settings, their targeting rules, rule conditions, and rollout variants.
// Entities are immutable snapshots for the duration of one resolution call;
// creation and mutation belong to the persistence layer.
package domain

import (
	"fmt"
	"sort"
	"time"
)

// DefaultPrecision is the rollout granularity used when none is configured:
// 100,000 buckets, i.e. variant weights in 0.001% steps.
const DefaultPrecision = 100_000

// ValueKind describes how a setting's resolved value should be interpreted
// by the caller. The engine itself never inspects it.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindBool   ValueKind = "bool"
	KindInt    ValueKind = "int"
	KindFloat  ValueKind = "float"
	KindJSON   ValueKind = "json"
)

// Setting is a configuration entry with an ordered set of targeting rules
// and a default value used when no rule matches.
type Setting struct {
	Key          string
	Kind         ValueKind
	DefaultValue any
	Rules        []Rule
}

// Rule is one targeting entry of a setting. Rules with lower Priority are
// evaluated first; ties are broken by ID ascending. A rule carries either a
// direct value or a set of rollout variants, never both (see Outcome).
type Rule struct {
	ID       int64
	Name     string
	Priority int

	// StartsAt/EndsAt bound the activation window. Either side may be open.
	StartsAt *time.Time
	EndsAt   *time.Time

	// Salt seeds rollout bucketing. When empty the setting key is used, so
	// re-salting a rule re-randomizes every assignment for that rule only.
	Salt string

	Conditions []Condition
	Outcome    Outcome
}

// EffectiveSalt returns the bucketing seed for this rule.
func (r *Rule) EffectiveSalt(settingKey string) string {
	if r.Salt != "" {
		return r.Salt
	}
	return settingKey
}

// ActiveAt reports whether t falls inside the rule's activation window.
func (r *Rule) ActiveAt(t time.Time) bool {
	if r.StartsAt != nil && t.Before(*r.StartsAt) {
		return false
	}
	if r.EndsAt != nil && t.After(*r.EndsAt) {
		return false
	}
	return true
}

// Condition is a single predicate of a rule. All conditions of a rule are
// AND-combined.
type Condition struct {
	// Type selects the attribute resolver namespace, e.g. "user",
	// "geocoding", "user_agent", "date_time".
	Type      string
	Attribute string
	Operator  Operator
	Operand   any
}

// Variant is one weighted outcome of a gradual rollout. Weight is expressed
// in basis points of the configured precision.
type Variant struct {
	Name   string
	Weight int
	Value  any
}

// Outcome is the rule's result mode: a direct value or a rollout over
// weighted variants. The two are mutually exclusive by construction.
type Outcome interface {
	outcome()
}

// Direct is an outcome that returns a fixed value on match.
type Direct struct {
	Value any
}

func (Direct) outcome() {}

// NewDirect builds a direct-value outcome.
func NewDirect(value any) Direct {
	return Direct{Value: value}
}

// Rollout is an outcome that assigns one of several weighted variants by
// deterministic bucketing. Variant order is the creation order and is
// significant for the cumulative walk.
type Rollout struct {
	Variants []Variant
}

func (Rollout) outcome() {}

// NewRollout builds a rollout outcome. At least one variant is required.
func NewRollout(variants ...Variant) (Rollout, error) {
	if len(variants) == 0 {
		return Rollout{}, NewValidationError("rollout requires at least one variant")
	}
	return Rollout{Variants: variants}, nil
}

// SortedRules returns the setting's rules ordered by priority ascending,
// ties broken by rule ID ascending. The receiver is not modified.
func (s *Setting) SortedRules() []Rule {
	rules := make([]Rule, len(s.Rules))
	copy(rules, s.Rules)

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority < rules[j].Priority
		}
		return rules[i].ID < rules[j].ID
	})

	return rules
}

// Validate checks the setting and its rules against the given rollout
// precision.
func (s *Setting) Validate(precision int) error {
	if s.Key == "" {
		return NewValidationError("setting key cannot be empty")
	}

	for i := range s.Rules {
		if err := s.Rules[i].Validate(precision); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}

	return nil
}

// Validate checks the rule's window, outcome, and variant weights.
func (r *Rule) Validate(precision int) error {
	if r.StartsAt != nil && r.EndsAt != nil && r.EndsAt.Before(*r.StartsAt) {
		return NewValidationError("rule window ends before it starts")
	}

	switch outcome := r.Outcome.(type) {
	case nil:
		return NewValidationError("rule has no outcome")
	case Direct:
		return nil
	case Rollout:
		if len(outcome.Variants) == 0 {
			return NewValidationError("rollout has no variants")
		}

		total := 0
		names := make(map[string]bool, len(outcome.Variants))
		for _, v := range outcome.Variants {
			if v.Name == "" {
				return NewValidationError("variant name cannot be empty")
			}
			if names[v.Name] {
				return NewValidationError(fmt.Sprintf("duplicate variant name %q", v.Name))
			}
			names[v.Name] = true

			if v.Weight < 0 {
				return NewValidationError(fmt.Sprintf("variant %q has negative weight", v.Name))
			}
			total += v.Weight
		}

		if total > precision {
			return NewValidationError(
				fmt.Sprintf("variant weights sum %d exceeds precision %d", total, precision),
			)
		}
		return nil
	default:
		return NewValidationError(fmt.Sprintf("unknown outcome type %T", outcome))
	}
}
