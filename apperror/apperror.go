// Package apperror defines the business error taxonomy shared by the
// services and mapped to HTTP responses at the Fiber boundary.
package apperror

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindValidation   Kind = "VALIDATION_ERROR"
	KindConflict     Kind = "CONFLICT"
	KindForbidden    Kind = "FORBIDDEN"
	KindInvalidState Kind = "INVALID_STATE"
)

type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidState:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// ConflictWindow is the sanitized view of a colliding booking returned to
// the caller: enough to propose a different window, nothing about another
// user's purpose or identity.
type ConflictWindow struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ResourceID uuid.UUID `json:"resource_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

// ConflictError is its own type rather than an embedding of Error: the
// conflict list rides along in the JSON body, and the flat struct keeps
// the error interface on the type itself.
type ConflictError struct {
	Kind      Kind             `json:"code"`
	Message   string           `json:"message"`
	Conflicts []ConflictWindow `json:"conflicts"`
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) HTTPStatus() int { return http.StatusConflict }

func Conflict(message string, conflicts []ConflictWindow) *ConflictError {
	return &ConflictError{
		Kind:      KindConflict,
		Message:   message,
		Conflicts: conflicts,
	}
}
