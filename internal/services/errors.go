package services

import (
	"errors"
	"fmt"
)

var (
	ErrLeadNotFound = errors.New("lead not found")

	// ErrNoChange signals a self-transition: the target status equals the
	// current one, so nothing is applied and no log entry is written.
	ErrNoChange = errors.New("status unchanged")
)

// ValidationError rejects input outside the enums or missing a required
// field. Reported to the caller without retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
