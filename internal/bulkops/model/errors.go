package model

import (
	"errors"
	"strings"
)

var (
	// ErrJobNotFound indicates that no job exists for the given ID.
	ErrJobNotFound = errors.New("job not found")
	// ErrResultNotReady indicates that the job exists but has not produced
	// a result yet.
	ErrResultNotReady = errors.New("result not ready")
	// ErrNoExport indicates that the result carries no downloadable file.
	ErrNoExport = errors.New("result has no export file")
)

// ValidationError is returned by Submit when the request fails pre-flight
// validation. It carries the full list of human-readable violations; no job
// is created when it is returned.
type ValidationError struct {
	Violations []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError builds a ValidationError from violation strings.
func NewValidationError(violations []string) *ValidationError {
	return &ValidationError{Violations: violations}
}
