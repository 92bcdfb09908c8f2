package evaluator

import (
	"github.com/stratumlabs/stratum/internal/comparator"
	"github.com/stratumlabs/stratum/pkg/domain"
)

// RuleEvaluator decides whether a rule matches a context.
type RuleEvaluator struct {
	conditions *ConditionEvaluator
}

// NewRuleEvaluator creates a rule evaluator on top of a condition evaluator.
func NewRuleEvaluator(conditions *ConditionEvaluator) *RuleEvaluator {
	return &RuleEvaluator{conditions: conditions}
}

// Evaluate checks the activation window first, then AND-combines the rule's
// conditions, short-circuiting on the first miss. An empty condition set
// matches unconditionally. Errors from a malformed condition surface to the
// caller, which treats the rule as not matching without aborting siblings.
func (e *RuleEvaluator) Evaluate(rule *domain.Rule, ec *domain.EvaluationContext, env *comparator.Env) (bool, error) {
	if !rule.ActiveAt(ec.Now) {
		return false, nil
	}

	for _, cond := range rule.Conditions {
		matched, err := e.conditions.Evaluate(cond, ec, env)
		if err != nil {
			return false, err
		}
		if !matched {
			return false, nil
		}
	}

	return true, nil
}
