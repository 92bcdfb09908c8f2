package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/stratumlabs/stratum/pkg/domain"
)

const (
	meterName  = "stratum"
	tracerName = "stratum"
)

// OTelProvider implements Provider on OpenTelemetry using the globally
// registered meter and tracer providers.
type OTelProvider struct {
	tracer trace.Tracer
	meter  metric.Meter

	resolutions        metric.Int64Counter
	resolutionDuration metric.Float64Histogram
	rulesEvaluated     metric.Int64Histogram
	assignments        metric.Int64Counter
}

// NewOTel creates an OpenTelemetry provider and registers its instruments.
func NewOTel() (*OTelProvider, error) {
	p := &OTelProvider{
		tracer: otel.Tracer(tracerName),
		meter:  otel.Meter(meterName),
	}

	if err := p.initMetrics(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *OTelProvider) initMetrics() error {
	var err error

	p.resolutions, err = p.meter.Int64Counter(
		"stratum.resolutions",
		metric.WithDescription("Number of setting resolutions"),
	)
	if err != nil {
		return err
	}

	p.resolutionDuration, err = p.meter.Float64Histogram(
		"stratum.resolution.duration",
		metric.WithDescription("Duration of setting resolutions"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	p.rulesEvaluated, err = p.meter.Int64Histogram(
		"stratum.resolution.rules_evaluated",
		metric.WithDescription("Rules evaluated per resolution"),
	)
	if err != nil {
		return err
	}

	p.assignments, err = p.meter.Int64Counter(
		"stratum.rollout.assignments",
		metric.WithDescription("Number of rollout variant assignments"),
	)
	if err != nil {
		return err
	}

	return nil
}

func (p *OTelProvider) StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, span := p.tracer.Start(ctx, name, trace.WithAttributes(toOTelAttrs(attrs)...))
	return ctx, otelSpan{span: span}
}

func (p *OTelProvider) RecordResolution(ctx context.Context, res *domain.Resolution) {
	attrs := metric.WithAttributes(
		attribute.String("setting.key", res.Key),
		attribute.String("source", string(res.Source)),
	)

	p.resolutions.Add(ctx, 1, attrs)
	p.resolutionDuration.Record(ctx, float64(res.Elapsed.Microseconds())/1000.0, attrs)
	p.rulesEvaluated.Record(ctx, int64(res.RulesEvaluated), attrs)
}

func (p *OTelProvider) RecordVariantAssignment(ctx context.Context, a VariantAssignment) {
	p.assignments.Add(ctx, 1, metric.WithAttributes(
		attribute.String("setting.key", a.SettingKey),
		attribute.String("rule", a.RuleName),
		attribute.String("variant", a.VariantName),
	))
}

// Shutdown is a no-op: the SDK owning the global providers flushes them.
func (p *OTelProvider) Shutdown(context.Context) error { return nil }

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) End() {
	s.span.End()
}

func (s otelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func toOTelAttrs(attrs []Attribute) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			out = append(out, attribute.String(a.Key, v))
		case int:
			out = append(out, attribute.Int(a.Key, v))
		case bool:
			out = append(out, attribute.Bool(a.Key, v))
		default:
			out = append(out, attribute.String(a.Key, fmt.Sprintf("%v", v)))
		}
	}
	return out
}
