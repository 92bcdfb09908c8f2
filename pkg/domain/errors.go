package domain

import (
	"errors"
	"fmt"
)

// -----------------------------
// NotFoundError
// -----------------------------

// NotFoundError indicates a setting does not exist for a tenant. Stores
// return it so the engine can resolve to a not_found result instead of
// failing.
type NotFoundError struct {
	TenantID string
	Key      string
}

func NewNotFoundError(tenantID, key string) *NotFoundError {
	return &NotFoundError{TenantID: tenantID, Key: key}
}

func (e *NotFoundError) Error() string {
	if e.TenantID == "" {
		return fmt.Sprintf("setting not found: %s", e.Key)
	}
	return fmt.Sprintf("setting not found: %s (tenant %s)", e.Key, e.TenantID)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// -----------------------------
// ConfigError
// -----------------------------

// ConfigError indicates a deployment mistake: an unregistered condition
// type, an unknown operator, or invalid engine configuration. It is never
// silently swallowed.
type ConfigError struct {
	Field   string
	Message string
}

func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error [%s]: %s", e.Field, e.Message)
}

func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// -----------------------------
// ValidationError
// -----------------------------

// ValidationError indicates a malformed entity (rule weights, outcome
// exclusivity, window ordering).
type ValidationError struct {
	Message string
	Cause   error
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// -----------------------------
// RuleError
// -----------------------------

// RuleError wraps a failure while evaluating one rule. The rule is treated
// as not matching; the error is recorded on the resolution.
type RuleError struct {
	SettingKey string
	RuleName   string
	Err        error
}

func NewRuleError(settingKey, ruleName string, err error) *RuleError {
	return &RuleError{SettingKey: settingKey, RuleName: ruleName, Err: err}
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %q of setting %q: %v", e.RuleName, e.SettingKey, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
