// Package telemetry defines the observability sink the engine reports to.
// Sinks are fire-and-forget: the engine produces resolution records and
// variant-assignment events, providers decide what to do with them.
package telemetry

import (
	"context"

	"github.com/stratumlabs/stratum/pkg/domain"
)

// Provider receives resolution records and rollout assignment events.
type Provider interface {
	// StartSpan opens a trace span around one resolution.
	StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)

	// RecordResolution is called once per resolve call with the final
	// record, including not_found outcomes.
	RecordResolution(ctx context.Context, res *domain.Resolution)

	// RecordVariantAssignment is called when a rollout assigned a variant.
	RecordVariantAssignment(ctx context.Context, assignment VariantAssignment)

	// Shutdown flushes and releases provider resources.
	Shutdown(ctx context.Context) error
}

// Span is a minimal trace-span handle.
type Span interface {
	End()
	RecordError(err error)
}

// VariantAssignment describes one sticky rollout assignment.
type VariantAssignment struct {
	SettingKey  string
	RuleName    string
	VariantName string
	Value       any
	Identifier  string
	Bucket      int
}

// Attribute is a key-value span attribute.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an int attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}
