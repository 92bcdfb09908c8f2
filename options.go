package stratum

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/stratumlabs/stratum/pkg/domain"
	"github.com/stratumlabs/stratum/pkg/telemetry"
)

// Distribution names a rollout variant-assignment algorithm.
type Distribution string

const (
	// DistributionCumulative walks variants in creation order against their
	// cumulative weights. The default.
	DistributionCumulative Distribution = "cumulative"

	// DistributionStratified remixes the bucket through a bijection first,
	// guaranteeing exact per-variant bucket counts.
	DistributionStratified Distribution = "stratified"
)

// Option configures an Engine.
type Option func(*config) error

// config holds internal engine configuration.
type config struct {
	precision    int
	distribution Distribution

	identifier domain.IdentifierResolver
	segments   domain.SegmentProvider
	holidays   domain.HolidayProvider
	providers  map[string]domain.AttributeProvider

	telemetry telemetry.Provider
	logger    *slog.Logger
	clock     func() time.Time
}

func defaultConfig() *config {
	return &config{
		precision:    domain.DefaultPrecision,
		distribution: DistributionCumulative,
		providers:    make(map[string]domain.AttributeProvider),
	}
}

// WithPrecision sets the bucket space size for rollouts. Changing precision
// re-buckets every identifier, so pick it once per deployment.
func WithPrecision(precision int) Option {
	return func(c *config) error {
		if precision <= 0 {
			return domain.NewConfigError("precision", "precision must be positive")
		}
		if precision > math.MaxUint32 {
			return domain.NewConfigError("precision", "precision must fit in 32 bits")
		}
		c.precision = precision
		return nil
	}
}

// WithDistribution selects the variant-assignment algorithm.
func WithDistribution(d Distribution) Option {
	return func(c *config) error {
		switch d {
		case DistributionCumulative, DistributionStratified:
			c.distribution = d
			return nil
		default:
			return domain.NewConfigError("distribution", fmt.Sprintf("unknown distribution %q", d))
		}
	}
}

// WithIdentifierResolver overrides how the rollout bucketing identifier is
// extracted from the evaluation context. When set, it fully replaces the
// default identity-then-scalar-scope chain.
func WithIdentifierResolver(resolver domain.IdentifierResolver) Option {
	return func(c *config) error {
		if resolver == nil {
			return domain.NewConfigError("identifier_resolver", "resolver cannot be nil")
		}
		c.identifier = resolver
		return nil
	}
}

// WithSegmentProvider wires the collaborator answering in_segment and
// not_in_segment conditions. Without one, segment conditions never match.
func WithSegmentProvider(provider domain.SegmentProvider) Option {
	return func(c *config) error {
		c.segments = provider
		return nil
	}
}

// WithHolidayProvider wires the holiday calendar behind is_holiday and
// is_business_day conditions.
func WithHolidayProvider(provider domain.HolidayProvider) Option {
	return func(c *config) error {
		c.holidays = provider
		return nil
	}
}

// WithGeoProvider wires the provider behind "geocoding" conditions. Results
// are memoized per scope within one resolution.
func WithGeoProvider(provider domain.AttributeProvider) Option {
	return WithAttributeProvider("geocoding", provider)
}

// WithUserAgentProvider wires the provider behind "user_agent" conditions.
func WithUserAgentProvider(provider domain.AttributeProvider) Option {
	return WithAttributeProvider("user_agent", provider)
}

// WithAttributeProvider registers a provider-backed condition type under a
// custom namespace.
func WithAttributeProvider(namespace string, provider domain.AttributeProvider) Option {
	return func(c *config) error {
		if namespace == "" {
			return domain.NewConfigError("attribute_provider", "namespace cannot be empty")
		}
		if provider == nil {
			return domain.NewConfigError("attribute_provider", fmt.Sprintf("nil provider for namespace %q", namespace))
		}
		c.providers[namespace] = provider
		return nil
	}
}

// WithTelemetry sets the telemetry provider. Default is a no-op.
func WithTelemetry(provider telemetry.Provider) Option {
	return func(c *config) error {
		c.telemetry = provider
		return nil
	}
}

// WithLogger sets the structured logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithClock overrides the engine clock. Tests use it to pin evaluation time
// and elapsed measurements.
func WithClock(clock func() time.Time) Option {
	return func(c *config) error {
		if clock == nil {
			return domain.NewConfigError("clock", "clock cannot be nil")
		}
		c.clock = clock
		return nil
	}
}
