package evaluator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumlabs/stratum/internal/comparator"
	"github.com/stratumlabs/stratum/pkg/domain"
)

func TestRuleEvaluator_ConditionSemantics(t *testing.T) {
	rules := NewRuleEvaluator(newConditionEvaluator(t))
	env := &comparator.Env{}

	premiumBR := userCtx(map[string]any{"tier": "premium", "country": "BR"})
	premiumBR.Now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	cond := func(attr string, op domain.Operator, operand any) domain.Condition {
		return domain.Condition{Type: "user", Attribute: attr, Operator: op, Operand: operand}
	}

	tests := []struct {
		name string
		rule domain.Rule
		want bool
	}{
		{
			name: "empty condition set matches unconditionally",
			rule: domain.Rule{Name: "always"},
			want: true,
		},
		{
			name: "all conditions hold",
			rule: domain.Rule{Name: "and", Conditions: []domain.Condition{
				cond("tier", domain.OpEquals, "premium"),
				cond("country", domain.OpEquals, "BR"),
			}},
			want: true,
		},
		{
			name: "one failing condition fails the rule",
			rule: domain.Rule{Name: "and-miss", Conditions: []domain.Condition{
				cond("tier", domain.OpEquals, "premium"),
				cond("country", domain.OpEquals, "DE"),
			}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rules.Evaluate(&tt.rule, premiumBR, env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleEvaluator_ActivationWindow(t *testing.T) {
	rules := NewRuleEvaluator(newConditionEvaluator(t))
	env := &comparator.Env{}

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)

	rule := domain.Rule{Name: "june-only", StartsAt: &start, EndsAt: &end}

	at := func(ts time.Time) *domain.EvaluationContext {
		ec := userCtx(map[string]any{})
		ec.Now = ts
		return ec
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before window", time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC), false},
		{"window start", start, true},
		{"inside window", time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), true},
		{"window end", end, true},
		{"after window", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rules.Evaluate(&rule, at(tt.now), env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("open-ended sides", func(t *testing.T) {
		onlyStart := domain.Rule{Name: "from-june", StartsAt: &start}
		got, err := rules.Evaluate(&onlyStart, at(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)), env)
		require.NoError(t, err)
		assert.True(t, got)

		onlyEnd := domain.Rule{Name: "until-june", EndsAt: &end}
		got, err = rules.Evaluate(&onlyEnd, at(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)), env)
		require.NoError(t, err)
		assert.True(t, got)
	})
}

func TestRuleEvaluator_MalformedConditionSurfacesError(t *testing.T) {
	rules := NewRuleEvaluator(newConditionEvaluator(t))
	env := &comparator.Env{}

	rule := domain.Rule{Name: "broken", Conditions: []domain.Condition{
		{Type: "nonexistent", Attribute: "x", Operator: domain.OpEquals, Operand: "y"},
	}}

	matched, err := rules.Evaluate(&rule, userCtx(map[string]any{}), env)
	require.Error(t, err)
	assert.False(t, matched)
	assert.True(t, domain.IsConfigError(err))
}
