package core

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ErrorKind classifies failures surfaced to callers.
type ErrorKind string

const (
	KindInternal           ErrorKind = "internal"
	KindInvalidArgument    ErrorKind = "invalid-argument"
	KindNotFound           ErrorKind = "not-found"
	KindPermissionDenied   ErrorKind = "permission-denied"
	KindAlreadyExists      ErrorKind = "already-exists"
	KindInvalidCredentials ErrorKind = "invalid-credentials"
)

// Error is a classified error. Message is safe to show to end users.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind ErrorKind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func InvalidArgument(msg string) error    { return NewError(KindInvalidArgument, msg) }
func NotFound(msg string) error           { return NewError(KindNotFound, msg) }
func PermissionDenied(msg string) error   { return NewError(KindPermissionDenied, msg) }
func AlreadyExists(msg string) error      { return NewError(KindAlreadyExists, msg) }
func InvalidCredentials(msg string) error { return NewError(KindInvalidCredentials, msg) }

// Internal wraps err as an internal error keeping its message.
// Already classified errors are returned unchanged.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var cErr *Error
	if errors.As(err, &cErr) {
		return err
	}
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

// KindOf returns the kind of err. Validation errors are invalid arguments, unclassified errors are internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr.Kind
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return KindInvalidArgument
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return KindInvalidArgument
	}
	return KindInternal
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return "invalid input"
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	var s *shutdown
	return errors.As(err, &s)
}
