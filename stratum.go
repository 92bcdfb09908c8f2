// Package stratum resolves configuration settings against targeting rules
// and deterministic percentage rollouts. Callers supply settings through a
// SettingStore; the engine evaluates each setting's rules in priority order
// and either returns a rule's value, buckets the requester into a rollout
// variant, or falls back to the setting default.
package stratum

import (
	"context"
	"strconv"

	"github.com/stratumlabs/stratum/internal/attribute"
	"github.com/stratumlabs/stratum/internal/comparator"
	"github.com/stratumlabs/stratum/internal/evaluator"
	"github.com/stratumlabs/stratum/pkg/domain"
	"github.com/stratumlabs/stratum/pkg/telemetry"
)

// Engine is the main entry point. It is immutable after construction and
// safe for concurrent use.
type Engine struct {
	resolver  *evaluator.Resolver
	telemetry telemetry.Provider
}

// New creates an engine reading settings from store.
//
// Example:
//
//	engine, err := stratum.New(store,
//	    stratum.WithDistribution(stratum.DistributionStratified),
//	    stratum.WithSegmentProvider(segments),
//	)
func New(store domain.SettingStore, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, domain.NewConfigError("store", "setting store is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	attrs := attribute.NewRegistry()
	if err := attrs.Register("user", attribute.NewUserResolver()); err != nil {
		return nil, err
	}
	if err := attrs.Register("date_time", attribute.NewDateTimeResolver()); err != nil {
		return nil, err
	}
	for namespace, provider := range cfg.providers {
		if err := attrs.Register(namespace, attribute.NewProviderResolver(namespace, provider)); err != nil {
			return nil, err
		}
	}

	var strategy evaluator.Strategy
	switch cfg.distribution {
	case DistributionStratified:
		strategy = evaluator.NewStratified(cfg.precision)
	default:
		strategy = evaluator.NewCumulative()
	}

	resolver := evaluator.NewResolver(evaluator.Config{
		Store:       store,
		Attributes:  attrs,
		Comparators: comparator.NewRegistry(),
		Strategy:    strategy,
		Precision:   cfg.precision,
		Identifier:  cfg.identifier,
		Segments:    cfg.segments,
		Holidays:    cfg.holidays,
		Telemetry:   cfg.telemetry,
		Logger:      cfg.logger,
		Clock:       cfg.clock,
	})

	provider := cfg.telemetry
	if provider == nil {
		provider = telemetry.NewNoOp()
	}

	return &Engine{resolver: resolver, telemetry: provider}, nil
}

// Resolve performs a full resolution and returns the detailed record. Use
// it when the source, matched rule, or per-rule errors matter.
func (e *Engine) Resolve(ctx context.Context, key string, evalCtx Context) (*domain.Resolution, error) {
	return e.resolver.Resolve(ctx, key, toDomainContext(evalCtx))
}

// Bool resolves a setting and returns its boolean value. Returns false when
// the setting is missing, resolution fails, or the value is not boolean.
func (e *Engine) Bool(ctx context.Context, key string, evalCtx Context) bool {
	res, err := e.Resolve(ctx, key, evalCtx)
	if err != nil || res.Source == domain.SourceNotFound {
		return false
	}
	if b, ok := res.Value.(bool); ok {
		return b
	}
	return false
}

// String resolves a setting and returns its string value, or defaultVal
// when the setting is missing or the value is not a string.
func (e *Engine) String(ctx context.Context, key string, evalCtx Context, defaultVal string) string {
	res, err := e.Resolve(ctx, key, evalCtx)
	if err != nil || res.Source == domain.SourceNotFound {
		return defaultVal
	}
	if s, ok := res.Value.(string); ok {
		return s
	}
	return defaultVal
}

// Int resolves a setting and returns its integer value, or defaultVal when
// the setting is missing or the value cannot be read as an integer. JSON
// numbers decode as float64, so those are accepted too.
func (e *Engine) Int(ctx context.Context, key string, evalCtx Context, defaultVal int) int {
	res, err := e.Resolve(ctx, key, evalCtx)
	if err != nil || res.Source == domain.SourceNotFound {
		return defaultVal
	}
	switch v := res.Value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// Float resolves a setting and returns its float value, or defaultVal when
// the setting is missing or the value cannot be read as a float.
func (e *Engine) Float(ctx context.Context, key string, evalCtx Context, defaultVal float64) float64 {
	res, err := e.Resolve(ctx, key, evalCtx)
	if err != nil || res.Source == domain.SourceNotFound {
		return defaultVal
	}
	switch v := res.Value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// Close shuts the telemetry provider down. The setting store is owned by
// the caller and is not touched.
func (e *Engine) Close(ctx context.Context) error {
	return e.telemetry.Shutdown(ctx)
}
