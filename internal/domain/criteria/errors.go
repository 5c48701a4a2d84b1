package criteria

import (
	"errors"
	"fmt"
)

// ErrorKind names a class of input failure.
type ErrorKind string

const (
	// KindFileNotFound indicates the input file does not exist or cannot be opened.
	KindFileNotFound ErrorKind = "FileNotFound"
	// KindMalformedJSON indicates the input is not a JSON object.
	KindMalformedJSON ErrorKind = "MalformedJSON"
	// KindUnknownCriterion indicates a key that is not part of the catalog.
	KindUnknownCriterion ErrorKind = "UnknownCriterion"
	// KindInvalidValueType indicates a value that is not true, false or null.
	KindInvalidValueType ErrorKind = "InvalidValueType"
)

// Sentinel errors for use with errors.Is. Matching is by Kind only.
var (
	ErrFileNotFound     = &ValidationError{Kind: KindFileNotFound}
	ErrMalformedJSON    = &ValidationError{Kind: KindMalformedJSON}
	ErrUnknownCriterion = &ValidationError{Kind: KindUnknownCriterion}
	ErrInvalidValueType = &ValidationError{Kind: KindInvalidValueType}
)

// ValidationError reports input that cannot be evaluated.
// No recommendation is produced when a ValidationError is returned.
type ValidationError struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// Field is the offending criterion name or file path. May be empty.
	Field string
	// Message is a user-facing description.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// NewValidationError creates a ValidationError with the given kind, field and message.
func NewValidationError(kind ErrorKind, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "validation failed"
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %q: %s", e.Kind, e.Field, msg)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ValidationError of the same Kind.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the ErrorKind of err if it is (or wraps) a ValidationError.
func KindOf(err error) (ErrorKind, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return "", false
}
