package adapter

import (
	"errors"
	"fmt"
	"strings"
)

var errEmptyBundle = errors.New("no recognized inputs could be built")

// inferenceError signals that the model call itself could not complete.
type inferenceError struct{ err error }

func (e *inferenceError) Error() string { return e.err.Error() }

func (e *inferenceError) Unwrap() error { return e.err }

// ErrInference wraps err as an inference error.
func ErrInference(err error) error { return &inferenceError{err: err} }

// IsInferenceError reports whether err came from the inference invoker.
func IsInferenceError(err error) bool {
	var ie *inferenceError
	return errors.As(err, &ie)
}

// schemaMismatchError lists declared inputs the tensor builder has no rule
// for. The model is not called when it occurs.
type schemaMismatchError struct{ inputs []string }

func (e *schemaMismatchError) Error() string {
	return "unsupported inputs: " + strings.Join(e.inputs, ", ")
}

// ErrSchemaMismatch reports declared inputs that cannot be built.
func ErrSchemaMismatch(inputs []string) error {
	return &schemaMismatchError{inputs: append([]string(nil), inputs...)}
}

// IsSchemaMismatch reports whether err lists unbuildable inputs.
func IsSchemaMismatch(err error) bool {
	var se *schemaMismatchError
	return errors.As(err, &se)
}

// errNoLoader is returned by loads on an adapter built without a loader.
var errNoLoader = errors.New("no model loader configured")

func panicError(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", v)
}
