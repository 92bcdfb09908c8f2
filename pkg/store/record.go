// Package store provides reference SettingStore implementations: an
// in-memory map, a YAML file source with live reload, a SQLite backend, and
// a caching decorator. The engine treats all of them as the external
// collaborator contract; none of them is required to use the engine.
package store

import (
	"fmt"
	"time"

	"github.com/stratumlabs/stratum/pkg/domain"
)

// settingRecord is the serialized form shared by the file and SQLite
// backends. A rule carries either a direct value or variants; both set is a
// validation error, variants win over value when decoding legacy documents
// is not a concern here.
type settingRecord struct {
	Key     string       `json:"key" yaml:"key"`
	Tenant  string       `json:"tenant,omitempty" yaml:"tenant,omitempty"`
	Kind    string       `json:"kind,omitempty" yaml:"kind,omitempty"`
	Default any          `json:"default" yaml:"default"`
	Rules   []ruleRecord `json:"rules,omitempty" yaml:"rules,omitempty"`
}

type ruleRecord struct {
	ID         int64             `json:"id" yaml:"id"`
	Name       string            `json:"name,omitempty" yaml:"name,omitempty"`
	Priority   int               `json:"priority" yaml:"priority"`
	StartsAt   *time.Time        `json:"starts_at,omitempty" yaml:"starts_at,omitempty"`
	EndsAt     *time.Time        `json:"ends_at,omitempty" yaml:"ends_at,omitempty"`
	Salt       string            `json:"salt,omitempty" yaml:"salt,omitempty"`
	Conditions []conditionRecord `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Value      any               `json:"value,omitempty" yaml:"value,omitempty"`
	Variants   []variantRecord   `json:"variants,omitempty" yaml:"variants,omitempty"`
}

type conditionRecord struct {
	Type      string `json:"type" yaml:"type"`
	Attribute string `json:"attribute" yaml:"attribute"`
	Operator  string `json:"operator" yaml:"operator"`
	Operand   any    `json:"operand,omitempty" yaml:"operand,omitempty"`
}

type variantRecord struct {
	Name   string `json:"name" yaml:"name"`
	Weight int    `json:"weight" yaml:"weight"`
	Value  any    `json:"value" yaml:"value"`
}

func (r settingRecord) toDomain() (*domain.Setting, error) {
	setting := &domain.Setting{
		Key:          r.Key,
		Kind:         domain.ValueKind(r.Kind),
		DefaultValue: r.Default,
		Rules:        make([]domain.Rule, 0, len(r.Rules)),
	}

	for _, rr := range r.Rules {
		rule, err := rr.toDomain()
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", r.Key, err)
		}
		setting.Rules = append(setting.Rules, rule)
	}

	return setting, nil
}

func (r ruleRecord) toDomain() (domain.Rule, error) {
	rule := domain.Rule{
		ID:       r.ID,
		Name:     r.Name,
		Priority: r.Priority,
		StartsAt: r.StartsAt,
		EndsAt:   r.EndsAt,
		Salt:     r.Salt,
	}

	for _, cr := range r.Conditions {
		rule.Conditions = append(rule.Conditions, domain.Condition{
			Type:      cr.Type,
			Attribute: cr.Attribute,
			Operator:  domain.Operator(cr.Operator),
			Operand:   cr.Operand,
		})
	}

	switch {
	case len(r.Variants) > 0 && r.Value != nil:
		return domain.Rule{}, domain.NewValidationError(
			fmt.Sprintf("rule %q declares both a value and variants", r.Name))
	case len(r.Variants) > 0:
		variants := make([]domain.Variant, 0, len(r.Variants))
		for _, vr := range r.Variants {
			variants = append(variants, domain.Variant{
				Name:   vr.Name,
				Weight: vr.Weight,
				Value:  vr.Value,
			})
		}
		rollout, err := domain.NewRollout(variants...)
		if err != nil {
			return domain.Rule{}, err
		}
		rule.Outcome = rollout
	default:
		rule.Outcome = domain.NewDirect(r.Value)
	}

	return rule, nil
}

func recordFromDomain(tenantID string, s *domain.Setting) settingRecord {
	record := settingRecord{
		Key:     s.Key,
		Tenant:  tenantID,
		Kind:    string(s.Kind),
		Default: s.DefaultValue,
	}

	for _, rule := range s.Rules {
		rr := ruleRecord{
			ID:       rule.ID,
			Name:     rule.Name,
			Priority: rule.Priority,
			StartsAt: rule.StartsAt,
			EndsAt:   rule.EndsAt,
			Salt:     rule.Salt,
		}

		for _, cond := range rule.Conditions {
			rr.Conditions = append(rr.Conditions, conditionRecord{
				Type:      cond.Type,
				Attribute: cond.Attribute,
				Operator:  string(cond.Operator),
				Operand:   cond.Operand,
			})
		}

		switch outcome := rule.Outcome.(type) {
		case domain.Direct:
			rr.Value = outcome.Value
		case domain.Rollout:
			for _, v := range outcome.Variants {
				rr.Variants = append(rr.Variants, variantRecord{
					Name:   v.Name,
					Weight: v.Weight,
					Value:  v.Value,
				})
			}
		}

		record.Rules = append(record.Rules, rr)
	}

	return record
}
