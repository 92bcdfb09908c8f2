package stratum

import (
	"github.com/stratumlabs/stratum/pkg/domain"
)

// Error classification helpers, re-exported so callers branching on failure
// modes do not need to import pkg/domain.

// IsNotFound reports whether err means a setting does not exist.
func IsNotFound(err error) bool { return domain.IsNotFound(err) }

// IsConfigError reports whether err is a deployment mistake such as an
// unknown operator or an unregistered condition type.
func IsConfigError(err error) bool { return domain.IsConfigError(err) }

// IsValidationError reports whether err means a malformed setting or rule.
func IsValidationError(err error) bool { return domain.IsValidationError(err) }
