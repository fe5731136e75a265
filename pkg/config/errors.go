package config

import (
	"errors"
	"fmt"
)

// ConfigError is the base interface for all config errors.
// Allows callers to use errors.As to get config-specific details.
type ConfigError interface {
	error
	ConfigError() // marker method
}

// ParseError indicates the YAML file could not be parsed.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) ConfigError() {}

// SchemaError indicates the config structure doesn't match the schema,
// for example a wrong type or an unknown key.
type SchemaError struct {
	Filename string
	Field    string
	Message  string
}

func (e *SchemaError) Error() string {
	if e.Field == "" || e.Field == "(root)" {
		return fmt.Sprintf("There is a problem in your %s file: %s", e.filename(), e.Message)
	}
	return fmt.Sprintf("There is a problem in your %s file: %s %s", e.filename(), e.Field, e.Message)
}

func (e *SchemaError) filename() string {
	if e.Filename == "" {
		return "config"
	}
	return e.Filename
}

func (e *SchemaError) ConfigError() {}

// ValidationError indicates a semantic validation failure.
// The config parses correctly but values are invalid.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) ConfigError() {}

// IsConfigError reports whether err (or anything it wraps) came from this package.
func IsConfigError(err error) bool {
	var cfgErr ConfigError
	return errors.As(err, &cfgErr)
}
