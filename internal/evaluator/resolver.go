package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stratumlabs/stratum/internal/attribute"
	"github.com/stratumlabs/stratum/internal/comparator"
	"github.com/stratumlabs/stratum/pkg/domain"
	"github.com/stratumlabs/stratum/pkg/telemetry"
)

// Config wires a Resolver's collaborators together.
type Config struct {
	Store       domain.SettingStore
	Attributes  *attribute.Registry
	Comparators *comparator.Registry
	Strategy    Strategy
	Precision   int
	Identifier  domain.IdentifierResolver
	Segments    domain.SegmentProvider
	Holidays    domain.HolidayProvider
	Telemetry   telemetry.Provider
	Logger      *slog.Logger
	Clock       func() time.Time
}

// Resolver orchestrates one resolution: it walks a setting's rules in
// priority order, applies the rule evaluator, and on a match either returns
// the rule's direct value or buckets the requester into a rollout variant.
// A Resolver is immutable after construction and safe for concurrent use;
// per-resolution state lives on the evaluation context.
type Resolver struct {
	store      domain.SettingStore
	rules      *RuleEvaluator
	strategy   Strategy
	precision  int
	identifier domain.IdentifierResolver
	segments   domain.SegmentProvider
	holidays   domain.HolidayProvider
	telemetry  telemetry.Provider
	logger     *slog.Logger
	clock      func() time.Time
}

// NewResolver builds a resolver from its configuration. Callers are expected
// to have validated precision and registries beforehand.
func NewResolver(cfg Config) *Resolver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	provider := cfg.Telemetry
	if provider == nil {
		provider = telemetry.NewNoOp()
	}

	conditions := NewConditionEvaluator(cfg.Attributes, cfg.Comparators)

	return &Resolver{
		store:      cfg.Store,
		rules:      NewRuleEvaluator(conditions),
		strategy:   cfg.Strategy,
		precision:  cfg.Precision,
		identifier: cfg.Identifier,
		segments:   cfg.Segments,
		holidays:   cfg.Holidays,
		telemetry:  provider,
		logger:     logger,
		clock:      clock,
	}
}

// Resolve decides the effective value for a setting key against the given
// evaluation context. A missing setting is a not_found result, not an error;
// store failures other than not-found are returned to the caller.
func (r *Resolver) Resolve(ctx context.Context, key string, ec *domain.EvaluationContext) (*domain.Resolution, error) {
	start := r.clock()
	if ec.Now.IsZero() {
		ec.Now = start
	}
	if ec.Memo == nil {
		ec.Memo = domain.NewAttributeMemo()
	}

	ctx, span := r.telemetry.StartSpan(ctx, "stratum.resolve",
		telemetry.String("setting.key", key),
		telemetry.String("tenant.id", ec.TenantID),
	)
	defer span.End()

	res := &domain.Resolution{
		ID:       uuid.NewString(),
		Key:      key,
		TenantID: ec.TenantID,
		Scope:    ec.Scope,
	}

	setting, err := r.store.GetSetting(ctx, ec.TenantID, key)
	if err != nil {
		if domain.IsNotFound(err) {
			res.Source = domain.SourceNotFound
			res.Reason = "setting not found"
			return r.finish(ctx, res, start), nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("load setting %q: %w", key, err)
	}

	env := &comparator.Env{
		Now:      ec.Now,
		Identity: ec.Identity,
		Segments: r.segments,
		Holidays: r.holidays,
	}

	rules := setting.SortedRules()
	for i := range rules {
		rule := &rules[i]
		res.RulesEvaluated++

		matched, err := r.rules.Evaluate(rule, ec, env)
		if err != nil {
			// Fail closed: a malformed rule never matches and never
			// prevents a later rule from matching.
			ruleErr := domain.NewRuleError(setting.Key, rule.Name, err)
			res.Errors = append(res.Errors, ruleErr)
			r.logger.DebugContext(ctx, "rule evaluation failed",
				"setting", setting.Key, "rule", rule.Name, "error", err)
			continue
		}
		if !matched {
			continue
		}

		res.MatchedRule = rule
		r.applyOutcome(ctx, res, setting, rule, ec)
		return r.finish(ctx, res, start), nil
	}

	res.Value = setting.DefaultValue
	res.Source = domain.SourceDefault
	res.Reason = "no rule matched"
	return r.finish(ctx, res, start), nil
}

// applyOutcome fills the resolution from the matched rule: a direct value,
// a rollout variant, or the fall-through to the setting default when the
// bucket is uncovered or no bucketing identifier exists.
func (r *Resolver) applyOutcome(ctx context.Context, res *domain.Resolution, setting *domain.Setting, rule *domain.Rule, ec *domain.EvaluationContext) {
	switch outcome := rule.Outcome.(type) {
	case domain.Direct:
		res.Value = outcome.Value
		res.Source = domain.SourceRule
		res.Reason = fmt.Sprintf("matched rule %q", rule.Name)

	case domain.Rollout:
		identifier, ok := r.bucketingIdentifier(ec)
		if !ok {
			res.Value = setting.DefaultValue
			res.Source = domain.SourceDefault
			res.Reason = fmt.Sprintf("rule %q rollout skipped: no bucketing identifier", rule.Name)
			return
		}

		salt := rule.EffectiveSalt(setting.Key)
		bucket := Bucket(identifier, salt, r.precision)

		variant := r.strategy.FindVariant(outcome.Variants, salt, r.precision, bucket)
		if variant == nil {
			res.Value = setting.DefaultValue
			res.Source = domain.SourceDefault
			res.Reason = fmt.Sprintf("rule %q rollout: bucket %d uncovered", rule.Name, bucket)
			return
		}

		res.Value = variant.Value
		res.Source = domain.SourceRollout
		res.MatchedVariant = variant
		res.Reason = fmt.Sprintf("rule %q assigned variant %q", rule.Name, variant.Name)

		r.telemetry.RecordVariantAssignment(ctx, telemetry.VariantAssignment{
			SettingKey:  setting.Key,
			RuleName:    rule.Name,
			VariantName: variant.Name,
			Value:       variant.Value,
			Identifier:  identifier,
			Bucket:      bucket,
		})

	default:
		// Validation rejects outcome-less rules; treat a stray one as the
		// setting default.
		res.Value = setting.DefaultValue
		res.Source = domain.SourceDefault
		res.Reason = fmt.Sprintf("rule %q has no outcome", rule.Name)
	}
}

// bucketingIdentifier picks the rollout identifier: the caller-supplied
// resolver first, then the authenticated identity, then a scalar scope.
func (r *Resolver) bucketingIdentifier(ec *domain.EvaluationContext) (string, bool) {
	if r.identifier != nil {
		if id, ok := r.identifier(ec.Scope, ec.Identity); ok && id != "" {
			return id, true
		}
		return "", false
	}

	if ec.Identity != nil && ec.Identity.ID != "" {
		return ec.Identity.ID, true
	}

	if ec.Scope != nil && isScalarScope(ec.Scope) {
		return fmt.Sprintf("%v", ec.Scope), true
	}

	return "", false
}

func isScalarScope(v any) bool {
	switch v.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

func (r *Resolver) finish(ctx context.Context, res *domain.Resolution, start time.Time) *domain.Resolution {
	res.Elapsed = r.clock().Sub(start)
	r.telemetry.RecordResolution(ctx, res)
	return res
}
