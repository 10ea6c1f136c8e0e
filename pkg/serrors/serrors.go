// Package serrors attaches a semantic kind to errors so transports can map
// failures to status codes without knowing where they came from.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a semantic error category. Kinds are sentinels created with NewKind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a kind whose Error() is name.
func NewKind(name string) Kind { return kind{s: name} }

var (
	ErrNotFound     = NewKind("NOT_FOUND")
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	ErrBadRequest   = NewKind("BAD_REQUEST")
	ErrInternal     = NewKind("INTERNAL")
	ErrUnavailable  = NewKind("UNAVAILABLE")
)

// Error carries a kind, an optional cause and an optional message.
// errors.Is and errors.As match both the kind and the cause chain.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With creates an error of kind k with a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap creates an error of kind k around err with a formatted message.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly creates an error carrying nothing but k.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// KindOf returns the kind found in err's chain, or nil if there is none.
func KindOf(err error) Kind {
	var k Kind
	if errors.As(err, &k) {
		return k
	}

	return nil
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}

	return (e.kind != nil && errors.Is(e.kind, target)) ||
		(e.err != nil && errors.Is(e.err, target))
}

func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}

	return (e.kind != nil && errors.As(e.kind, target)) ||
		(e.err != nil && errors.As(e.err, target))
}

// Kind returns the semantic kind, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the attached message without the cause.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped error, or nil.
func (e *Error) Cause() error { return e.err }
