package necx_errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport can map it with a table lookup.
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindStorage    Kind = "DATABASE_ERROR"
)

// Common errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage failure")
)

var sentinels = map[Kind]error{
	KindValidation: ErrInvalidInput,
	KindNotFound:   ErrNotFound,
	KindConflict:   ErrConflict,
	KindStorage:    ErrStorage,
}

// Error is the only error type the service layer raises. Message is safe to show
// to callers; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNotFound) and friends match on kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func Validationf(format string, args ...any) error {
	return Validation(fmt.Sprintf(format, args...))
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// Storage wraps an infrastructure failure. The message names the operation only.
func Storage(op string, cause error) error {
	return &Error{
		Kind:    KindStorage,
		Message: fmt.Sprintf("failed to %s", op),
		Op:      op,
		Err:     cause,
	}
}

// AsStorage passes domain errors through untouched and wraps anything else.
func AsStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Storage(op, err)
}

// KindOf reports the kind of err. Unclassified errors count as storage failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// IsDomain reports whether err is a caller-side failure (validation, not found, conflict).
func IsDomain(err error) bool {
	switch KindOf(err) {
	case KindValidation, KindNotFound, KindConflict:
		return true
	}
	return false
}
