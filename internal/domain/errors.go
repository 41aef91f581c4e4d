// Package domain defines core types, interfaces, and errors for the
// registration platform.
package domain

import "fmt"

// NotFoundError indicates a referenced entity does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AuthorizationError indicates the caller does not own the targeted resource,
// e.g. an athlete/team mismatch.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a duplicate resource.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// IneligibleEventError indicates an event is not mapped to the athlete's group.
type IneligibleEventError struct {
	EventID int64
}

func (e *IneligibleEventError) Error() string {
	return fmt.Sprintf("event %d is not eligible for the athlete's group", e.EventID)
}

// Quota dimensions reported by QuotaExceededError.
const (
	QuotaEventsPerAthlete = "events-per-athlete"
	QuotaEventCapacity    = "event-capacity"
	QuotaAthletesPerTeam  = "athletes-per-team"
	QuotaLeadersPerTeam   = "leaders-per-team"
)

// QuotaExceededError indicates a configured limit would be exceeded. Current
// and Limit are surfaced verbatim so callers can explain the rejection.
// EventID is set only for the event-capacity dimension.
type QuotaExceededError struct {
	Dimension string
	EventID   int64
	Current   int
	Limit     int
}

func (e *QuotaExceededError) Error() string {
	if e.Dimension == QuotaEventCapacity {
		return fmt.Sprintf("quota exceeded (%s): event %d at %d of %d", e.Dimension, e.EventID, e.Current, e.Limit)
	}
	return fmt.Sprintf("quota exceeded (%s): %d of %d", e.Dimension, e.Current, e.Limit)
}

// PersistenceError indicates a transaction or commit failure. The operation
// was rolled back in full and is safe to retry.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrAuthorization creates an AuthorizationError with a formatted message.
func ErrAuthorization(format string, args ...interface{}) *AuthorizationError {
	return &AuthorizationError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrPersistence wraps a storage failure in a PersistenceError.
func ErrPersistence(err error, format string, args ...interface{}) *PersistenceError {
	return &PersistenceError{Message: fmt.Sprintf(format, args...), Err: err}
}
