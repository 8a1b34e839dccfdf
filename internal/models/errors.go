package models

import "fmt"

// ConfigError reports a missing or invalid input parameter. It is fatal for
// the calculation that produced it and is never retried.
type ConfigError struct {
	Field  string // dotted path of the offending parameter, e.g. "fiscal_terms.depreciation_life"
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
