package errors

import "fmt"

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfigError reports a missing or invalid key in the department
// configuration. Configuration errors are fatal and are raised before any
// model is built.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error at %q: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Define specific error types for better error handling
var (
	ErrInvalidFieldCount = fmt.Errorf("invalid field count")
	ErrMissingColumn     = fmt.Errorf("missing required column")
	ErrInvalidDate       = fmt.Errorf("invalid date")
	ErrEmptyRecord       = fmt.Errorf("empty record")
	ErrMissingRule       = fmt.Errorf("missing required rule")
	ErrDateRange         = fmt.Errorf("start date after end date")
	ErrUnknownSession    = fmt.Errorf("unknown session kind")
)
