package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrMissingRequired = goerr.New("required field is missing")
	ErrOutOfRange      = goerr.New("value out of range")
	ErrInvalidFormat   = goerr.New("invalid format")
)

// Context keys for error values
const (
	FieldKey = "field"
	ValueKey = "value"
)
