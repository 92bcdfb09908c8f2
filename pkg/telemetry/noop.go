package telemetry

import (
	"context"

	"github.com/stratumlabs/stratum/pkg/domain"
)

// NoOpProvider discards everything. It is the default when no sink is
// configured and is handy in tests.
type NoOpProvider struct{}

// NewNoOp creates a no-op provider.
func NewNoOp() *NoOpProvider {
	return &NoOpProvider{}
}

func (n *NoOpProvider) StartSpan(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noOpSpan{}
}

func (n *NoOpProvider) RecordResolution(context.Context, *domain.Resolution) {}

func (n *NoOpProvider) RecordVariantAssignment(context.Context, VariantAssignment) {}

func (n *NoOpProvider) Shutdown(context.Context) error { return nil }

type noOpSpan struct{}

func (noOpSpan) End()              {}
func (noOpSpan) RecordError(error) {}
