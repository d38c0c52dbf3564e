package domain

import (
	"errors"
	"sort"
	"strings"
)

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrUnauthorized       = errors.New("not authorized")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidDates       = errors.New("invalid booking dates")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrOrderMismatch      = errors.New("payment does not match its order")
	ErrGateway            = errors.New("upstream gateway error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// ValidationError carries the offending field names
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

// NewValidationError builds a ValidationError with sorted, de-duplicated fields
func NewValidationError(message string, fields ...string) *ValidationError {
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok || f == "" {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	return &ValidationError{Message: message, Fields: out}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// DuplicateApplicationError is returned when a host application already
// exists for the submitted email or phone.
type DuplicateApplicationError struct {
	ExistingID string
}

func (e *DuplicateApplicationError) Error() string {
	return "host application already exists: " + e.ExistingID
}

// Is lets callers match with errors.Is(err, ErrDuplicateEntry)
func (e *DuplicateApplicationError) Is(target error) bool {
	return target == ErrDuplicateEntry
}
