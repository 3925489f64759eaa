package httpx

import (
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/lib/pq"
)

// Error is the API error taxonomy. Every failure a handler surfaces is one
// of these; downstream driver errors are mapped before they reach a client.
type Error struct {
	Status  int          `json:"-"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"errors,omitempty"`
}

// FieldError names a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return NewError(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return NewError(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return NewError(http.StatusForbidden, message)
}

func NotFound(resource string) *Error {
	return NewError(http.StatusNotFound, resource+" not found")
}

func Conflict(message string) *Error {
	return NewError(http.StatusConflict, message)
}

func Unavailable(message string) *Error {
	return NewError(http.StatusServiceUnavailable, message)
}

func Internal(message string) *Error {
	return NewError(http.StatusInternalServerError, message)
}

// Validation builds a 400 carrying field-level messages.
func Validation(fields ...FieldError) *Error {
	msg := "Validation failed"
	if len(fields) == 1 {
		msg = fields[0].Message
	}
	return &Error{Status: http.StatusBadRequest, Message: msg, Fields: fields}
}

// Field is shorthand for a FieldError.
func Field(name, message string) FieldError {
	return FieldError{Field: name, Message: message}
}

// pq unique_violation
const pgUniqueViolation = "23505"

// pq invalid_text_representation (bad uuid in a where clause)
const pgInvalidText = "22P02"

// FromStore maps a storage error onto the taxonomy: missing rows and
// malformed identifiers become 404, connection failures 503, duplicates
// 409, everything else a generic 500 that hides the driver message.
func FromStore(err error, resource string) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, sql.ErrNoRows) {
		return NotFound(resource)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return Conflict(fmt.Sprintf("%s already exists", resource))
		case pgInvalidText:
			return NotFound(resource)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, sql.ErrConnDone) {
		return Unavailable("Database connection error")
	}

	return Internal("Server error")
}
