package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/stratumlabs/stratum/pkg/domain"
)

// PrometheusProvider implements Provider with Prometheus collectors held in
// a dedicated registry, so only stratum metrics appear wherever the caller
// exposes it. Tracing is a no-op under this provider.
type PrometheusProvider struct {
	Registry *prometheus.Registry

	resolutions        *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	assignments        *prometheus.CounterVec
}

// NewPrometheus creates a provider with all collectors registered in a
// fresh registry.
func NewPrometheus() *PrometheusProvider {
	reg := prometheus.NewRegistry()

	p := &PrometheusProvider{
		Registry: reg,

		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stratum_resolutions_total",
			Help: "Total number of setting resolutions.",
		}, []string{"key", "source"}),

		resolutionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stratum_resolution_duration_seconds",
			Help:    "Setting resolution latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"key"}),

		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stratum_rollout_assignments_total",
			Help: "Total number of rollout variant assignments.",
		}, []string{"key", "rule", "variant"}),
	}

	reg.MustRegister(p.resolutions, p.resolutionDuration, p.assignments)
	return p
}

func (p *PrometheusProvider) StartSpan(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noOpSpan{}
}

func (p *PrometheusProvider) RecordResolution(_ context.Context, res *domain.Resolution) {
	p.resolutions.WithLabelValues(res.Key, string(res.Source)).Inc()
	p.resolutionDuration.WithLabelValues(res.Key).Observe(res.Elapsed.Seconds())
}

func (p *PrometheusProvider) RecordVariantAssignment(_ context.Context, a VariantAssignment) {
	p.assignments.WithLabelValues(a.SettingKey, a.RuleName, a.VariantName).Inc()
}

func (p *PrometheusProvider) Shutdown(context.Context) error { return nil }
