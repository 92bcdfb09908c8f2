package telemetry

import (
	"context"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumlabs/stratum/pkg/domain"
)

func gatherMetric(t *testing.T, p *PrometheusProvider, name string) *dto.MetricFamily {
	t.Helper()

	families, err := p.Registry.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestPrometheusProvider_RecordResolution(t *testing.T) {
	p := NewPrometheus()
	ctx := context.Background()

	res := &domain.Resolution{
		Key:     "checkout",
		Source:  domain.SourceRule,
		Elapsed: 5 * time.Millisecond,
	}
	p.RecordResolution(ctx, res)
	p.RecordResolution(ctx, res)

	counter := gatherMetric(t, p, "stratum_resolutions_total")
	require.NotNil(t, counter)
	require.Len(t, counter.Metric, 1)
	assert.Equal(t, float64(2), counter.Metric[0].GetCounter().GetValue())

	labels := map[string]string{}
	for _, l := range counter.Metric[0].GetLabel() {
		labels[l.GetName()] = l.GetValue()
	}
	assert.Equal(t, "checkout", labels["key"])
	assert.Equal(t, "rule", labels["source"])

	hist := gatherMetric(t, p, "stratum_resolution_duration_seconds")
	require.NotNil(t, hist)
	assert.Equal(t, uint64(2), hist.Metric[0].GetHistogram().GetSampleCount())
}

func TestPrometheusProvider_RecordVariantAssignment(t *testing.T) {
	p := NewPrometheus()

	p.RecordVariantAssignment(context.Background(), VariantAssignment{
		SettingKey:  "checkout",
		RuleName:    "split",
		VariantName: "a",
	})

	counter := gatherMetric(t, p, "stratum_rollout_assignments_total")
	require.NotNil(t, counter)
	assert.Equal(t, float64(1), counter.Metric[0].GetCounter().GetValue())
}

func TestPrometheusProvider_SpanIsNoOp(t *testing.T) {
	p := NewPrometheus()

	ctx, span := p.StartSpan(context.Background(), "resolve")
	assert.NotNil(t, ctx)
	span.RecordError(assert.AnError)
	span.End()

	assert.NoError(t, p.Shutdown(context.Background()))
}
