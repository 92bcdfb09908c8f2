package domain

import (
	"time"
)

// Source tags where a resolved value came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceRule     Source = "rule"
	SourceRollout  Source = "rollout"
	SourceNotFound Source = "not_found"
)

// Resolution is the record emitted for every resolve call. The engine only
// produces it; persisting or transmitting it is the caller's concern.
type Resolution struct {
	// ID uniquely identifies this resolution for correlation in sinks.
	ID string

	Key      string
	TenantID string

	Value  any
	Source Source

	// MatchedRule and MatchedVariant are set when a rule matched and, for
	// rollouts, when a variant covered the bucket.
	MatchedRule    *Rule
	MatchedVariant *Variant

	// RulesEvaluated counts rules actually evaluated before the walk
	// stopped, for tuning rule ordering and operator cost.
	RulesEvaluated int

	Elapsed time.Duration

	// Scope echoes the caller-supplied scope for observability.
	Scope any

	// Reason is a human-readable explanation of the outcome.
	Reason string

	// Errors collects per-rule evaluation failures (unregistered condition
	// types, unsupported operators). A failed rule is treated as not
	// matching; sibling rules are unaffected.
	Errors []error
}
