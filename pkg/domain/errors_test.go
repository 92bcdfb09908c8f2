package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	notFound := NewNotFoundError("acme", "checkout")
	config := NewConfigError("operator", "unknown operator")
	validation := NewValidationError("bad weights")
	rule := NewRuleError("checkout", "premium", config)

	t.Run("IsNotFound", func(t *testing.T) {
		assert.True(t, IsNotFound(notFound))
		assert.True(t, IsNotFound(fmt.Errorf("load: %w", notFound)))
		assert.False(t, IsNotFound(config))
		assert.False(t, IsNotFound(nil))
	})

	t.Run("IsConfigError", func(t *testing.T) {
		assert.True(t, IsConfigError(config))
		assert.True(t, IsConfigError(rule), "rule error wrapping a config error classifies as one")
		assert.False(t, IsConfigError(notFound))
	})

	t.Run("IsValidationError", func(t *testing.T) {
		assert.True(t, IsValidationError(validation))
		assert.False(t, IsValidationError(config))
	})

	t.Run("rule error unwraps its cause", func(t *testing.T) {
		var target *ConfigError
		assert.True(t, errors.As(rule, &target))
		assert.Equal(t, "operator", target.Field)
	})
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, NewNotFoundError("acme", "checkout").Error(), "checkout")
	assert.Contains(t, NewNotFoundError("acme", "checkout").Error(), "acme")
	assert.Contains(t, NewConfigError("precision", "must be positive").Error(), "precision")
	assert.Contains(t, NewRuleError("k", "r", errors.New("boom")).Error(), `"r"`)
}
