// Package evaluator contains the resolution pipeline: condition and rule
// evaluation, deterministic bucketing, variant distribution, and the
// orchestrator that walks a setting's rules in priority order.
package evaluator

import (
	"fmt"
	"reflect"

	"github.com/stratumlabs/stratum/internal/attribute"
	"github.com/stratumlabs/stratum/internal/comparator"
	"github.com/stratumlabs/stratum/pkg/domain"
)

// ConditionEvaluator evaluates one condition against a context, routing
// through the attribute registry and the comparator registry.
type ConditionEvaluator struct {
	attributes  *attribute.Registry
	comparators *comparator.Registry
}

// NewConditionEvaluator wires the two registries together.
func NewConditionEvaluator(attributes *attribute.Registry, comparators *comparator.Registry) *ConditionEvaluator {
	return &ConditionEvaluator{attributes: attributes, comparators: comparators}
}

// Evaluate returns whether the condition holds. Data problems (missing
// attribute, malformed operand) yield false; unregistered condition types
// and unknown operators are configuration errors.
func (e *ConditionEvaluator) Evaluate(cond domain.Condition, ec *domain.EvaluationContext, env *comparator.Env) (bool, error) {
	spec, known := domain.SpecFor(cond.Operator)
	if !known {
		return false, domain.NewConfigError("operator", fmt.Sprintf("unknown operator %q", cond.Operator))
	}

	resolver, ok := e.attributes.Lookup(cond.Type)
	if !ok {
		return false, domain.NewConfigError("condition_type", fmt.Sprintf("no resolver registered for type %q", cond.Type))
	}

	value, exists := resolver.Resolve(ec, cond.Attribute)

	// Existence operators are answered by presence alone, before any
	// comparator runs.
	switch cond.Operator {
	case domain.OpIsNull:
		return !exists || value == nil, nil
	case domain.OpIsNotNull:
		return exists && value != nil, nil
	}

	// For every other operator an absent attribute is a non-match, never
	// an error.
	if !exists {
		return false, nil
	}

	if !operandShapeOK(spec.Operand, cond.Operand) {
		return false, nil
	}

	fn, ok := e.comparators.Lookup(cond.Operator)
	if !ok {
		return false, domain.NewConfigError("operator", fmt.Sprintf("no comparator registered for operator %q", cond.Operator))
	}

	return fn(env, value, cond.Operand)
}

// operandShapeOK validates the operand against the operator's declared
// shape. A mismatch fails the condition, it never aborts evaluation.
func operandShapeOK(shape domain.OperandShape, operand any) bool {
	switch shape {
	case domain.OperandNone:
		return true
	case domain.OperandScalar:
		return operand != nil && !isSequence(operand)
	case domain.OperandArray:
		return sequenceLen(operand) > 0
	case domain.OperandPair:
		return sequenceLen(operand) == 2
	default:
		return false
	}
}

func isSequence(v any) bool {
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func sequenceLen(v any) int {
	if v == nil {
		return -1
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return -1
	}
	return rv.Len()
}
