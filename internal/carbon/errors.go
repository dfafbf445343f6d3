package carbon

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the root of every input validation failure.
	ErrInvalidInput = errors.New("invalid analysis input")

	ErrMissingInstances = fmt.Errorf("%w: instances is required", ErrInvalidInput)
	ErrMissingRegions   = fmt.Errorf("%w: regions is required", ErrInvalidInput)
	ErrMissingSessions  = fmt.Errorf("%w: sessions is required", ErrInvalidInput)

	// ErrInvalidGrowthRate is returned for growth rates below -100%.
	ErrInvalidGrowthRate = errors.New("growth rate must be >= -1")

	// ErrInvalidPeriods is returned for negative or non-finite projection periods.
	ErrInvalidPeriods = errors.New("periods must be a finite value >= 0")
)

// InputError names the field that made an analysis input malformed.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid analysis input: %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func inputErrorf(field, format string, args ...any) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
