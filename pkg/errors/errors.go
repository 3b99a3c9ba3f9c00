package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness. Code is the
// stable machine-readable reason reported to the client.
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Rejection reasons for the ingestion pipeline plus read-path and
// infrastructure failures.
var (
	ErrInvalidBody         = New("INVALID_BODY", http.StatusBadRequest, "body must be a JSON object")
	ErrBodyTooLarge        = New("BODY_TOO_LARGE", http.StatusRequestEntityTooLarge, "request body exceeds the size limit")
	ErrMissingLessonID     = New("MISSING_LESSON_ID", http.StatusBadRequest, "lessonId is required")
	ErrInvalidDayResults   = New("INVALID_DAY_RESULTS", http.StatusBadRequest, "dayResults must be an object")
	ErrInvalidExerciseKeys = New("INVALID_EXERCISE_KEYS", http.StatusBadRequest, "dayResults contains unknown exercise keys")
	ErrMissingIdentity     = New("MISSING_IDENTITY", http.StatusBadRequest, "classCode and participantId are required")
	ErrInvalidMode         = New("INVALID_MODE", http.StatusBadRequest, "mode must be classes or sessions")
	ErrMissingClass        = New("MISSING_CLASS", http.StatusBadRequest, "class is required in sessions mode")
	ErrDuplicate           = New("DUPLICATE_SUBMISSION", http.StatusConflict, "submission already received")
	ErrValidation          = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrNotFound            = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrStore               = New("STORE_ERROR", http.StatusServiceUnavailable, "record store unavailable")
	ErrInternal            = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy of the error carrying extra response context,
// e.g. the offending exercise keys.
func WithDetails(err *Error, details map[string]interface{}) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Details = details
	return &clone
}

// IsClientShape reports whether the error is the caller's fault (4xx).
func IsClientShape(err error) bool {
	e := FromError(err)
	return e != nil && e.Status >= 400 && e.Status < 500
}
