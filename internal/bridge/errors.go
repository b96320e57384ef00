package bridge

import (
	"errors"
	"fmt"
)

// Error codes reported to hosts alongside the message.
const (
	CodeNotImplemented   = "NOT_IMPLEMENTED"
	CodeInvalidArguments = "INVALID_ARGUMENTS"
	CodeInternal         = "INTERNAL"
)

type notImplementedError struct{ method string }

func (e notImplementedError) Error() string {
	return fmt.Sprintf("method not implemented: %q", e.method)
}

// ErrNotImplemented constructs the error returned for unknown methods.
func ErrNotImplemented(method string) error { return notImplementedError{method: method} }

// IsNotImplemented reports whether err names an unknown method.
func IsNotImplemented(err error) bool {
	var e notImplementedError
	return errors.As(err, &e)
}

type invalidArgumentsError struct{ msg string }

func (e invalidArgumentsError) Error() string { return "invalid arguments: " + e.msg }

// ErrInvalidArguments constructs the error returned for missing or
// wrong-typed call arguments.
func ErrInvalidArguments(format string, args ...any) error {
	return invalidArgumentsError{msg: fmt.Sprintf(format, args...)}
}

// IsInvalidArguments reports whether err is an argument error.
func IsInvalidArguments(err error) bool {
	var e invalidArgumentsError
	return errors.As(err, &e)
}

// Code maps an error to its host-facing code.
func Code(err error) string {
	switch {
	case IsNotImplemented(err):
		return CodeNotImplemented
	case IsInvalidArguments(err):
		return CodeInvalidArguments
	default:
		return CodeInternal
	}
}
