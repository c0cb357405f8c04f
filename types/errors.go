package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for the workflow engine surfacing it
type ErrorKind string

const (
	// KindValidation marks inconsistent field selection against cursor, primary key or schema
	KindValidation ErrorKind = "VALIDATION_ERROR"
	// KindNotSupported marks a requested capability that does not exist yet (nested selection)
	KindNotSupported ErrorKind = "NOT_SUPPORTED"
	// KindTransientIO marks a failed fetch or persist against an external store
	KindTransientIO ErrorKind = "TRANSIENT_IO"
	// KindIllegalState marks a connection without the data an attempt requires
	KindIllegalState ErrorKind = "ILLEGAL_STATE"
	KindUnknown      ErrorKind = "UNKNOWN"
)

var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotSupported = &Error{Kind: KindNotSupported}
	ErrTransientIO  = &Error{Kind: KindTransientIO}
	ErrIllegalState = &Error{Kind: KindIllegalState}
)

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the package sentinels work with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NewValidationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotSupportedError(format string, args ...any) error {
	return &Error{Kind: KindNotSupported, Message: fmt.Sprintf(format, args...)}
}

func NewIllegalStateError(format string, args ...any) error {
	return &Error{Kind: KindIllegalState, Message: fmt.Sprintf(format, args...)}
}

// NewTransientIOError wraps a store failure; nil stays nil
func NewTransientIOError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindTransientIO, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) ErrorKind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindUnknown
}

func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientIO)
}
