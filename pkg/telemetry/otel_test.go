package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/stratumlabs/stratum/pkg/domain"
)

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestOTelProvider_RecordResolution(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	p, err := NewOTel()
	require.NoError(t, err)

	ctx := context.Background()
	p.RecordResolution(ctx, &domain.Resolution{
		Key:            "checkout",
		Source:         domain.SourceRollout,
		RulesEvaluated: 3,
		Elapsed:        2 * time.Millisecond,
	})

	metrics := collectMetrics(t, reader)

	resolutions, ok := metrics["stratum.resolutions"]
	require.True(t, ok)
	sum, ok := resolutions.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)

	duration, ok := metrics["stratum.resolution.duration"]
	require.True(t, ok)
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.InDelta(t, 2.0, hist.DataPoints[0].Sum, 0.01)

	rules, ok := metrics["stratum.resolution.rules_evaluated"]
	require.True(t, ok)
	rulesHist, ok := rules.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	assert.Equal(t, int64(3), rulesHist.DataPoints[0].Sum)
}

func TestOTelProvider_RecordVariantAssignment(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	p, err := NewOTel()
	require.NoError(t, err)

	p.RecordVariantAssignment(context.Background(), VariantAssignment{
		SettingKey:  "checkout",
		RuleName:    "split",
		VariantName: "a",
		Bucket:      42,
	})

	metrics := collectMetrics(t, reader)

	assignments, ok := metrics["stratum.rollout.assignments"]
	require.True(t, ok)
	sum, ok := assignments.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)
}

func TestOTelProvider_Span(t *testing.T) {
	p, err := NewOTel()
	require.NoError(t, err)

	ctx, span := p.StartSpan(context.Background(), "stratum.resolve",
		String("setting.key", "checkout"),
		Int("rules", 2),
	)
	assert.NotNil(t, ctx)
	span.RecordError(assert.AnError)
	span.End()

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNoOpProvider(t *testing.T) {
	p := NewNoOp()

	ctx, span := p.StartSpan(context.Background(), "anything")
	assert.NotNil(t, ctx)
	span.End()
	span.RecordError(nil)

	p.RecordResolution(ctx, &domain.Resolution{Key: "k"})
	p.RecordVariantAssignment(ctx, VariantAssignment{})
	assert.NoError(t, p.Shutdown(ctx))
}
