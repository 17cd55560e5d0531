package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ConflictError indicates a seat-level collision: the requested seats are
// already locked by another session or already sold.
type ConflictError struct {
	Seats   []string
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("seats already taken: %s", strings.Join(e.Seats, ", "))
}

// NewConflictError creates a ConflictError for the given seats
func NewConflictError(seats []string, message string) *ConflictError {
	return &ConflictError{Seats: seats, Message: message}
}

// ValidationError indicates malformed or semantically invalid input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NewValidationError creates a ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError indicates a referenced entity does not exist
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Entity)
}

// NewNotFoundError creates a NotFoundError
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// UpstreamUnavailable indicates a dependency (lock store, payment authority)
// could not be reached or answered with an unknown state. Callers must treat
// the operation as denied, never granted.
type UpstreamUnavailable struct {
	Service string
	Err     error
}

func (e *UpstreamUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s unavailable", e.Service)
}

func (e *UpstreamUnavailable) Unwrap() error {
	return e.Err
}

// NewUpstreamUnavailable wraps err as an UpstreamUnavailable for service
func NewUpstreamUnavailable(service string, err error) *UpstreamUnavailable {
	return &UpstreamUnavailable{Service: service, Err: err}
}

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsUpstreamUnavailable reports whether err is an UpstreamUnavailable
func IsUpstreamUnavailable(err error) bool {
	var ue *UpstreamUnavailable
	return errors.As(err, &ue)
}
