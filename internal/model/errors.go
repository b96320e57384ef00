package model

import (
	"errors"
	"fmt"
)

// loadError wraps any failure to turn an artifact into a usable handle.
type loadError struct {
	backend string
	path    string
	err     error
}

func (e *loadError) Error() string {
	return fmt.Sprintf("load %s model %q: %v", e.backend, e.path, e.err)
}

func (e *loadError) Unwrap() error { return e.err }

// ErrLoad wraps err as a load error for the given backend and path.
func ErrLoad(backend, path string, err error) error {
	return &loadError{backend: backend, path: path, err: err}
}

// IsLoadError reports whether err came from a failed load.
func IsLoadError(err error) bool {
	var le *loadError
	return errors.As(err, &le)
}

// artifactNotFoundError signals the bundled model file is absent. This is an
// expected condition, not a crash.
type artifactNotFoundError struct{ where string }

func (e artifactNotFoundError) Error() string { return "model artifact not found: " + e.where }

// ErrArtifactNotFound constructs an artifactNotFoundError.
func ErrArtifactNotFound(where string) error { return artifactNotFoundError{where: where} }

// IsArtifactNotFound reports whether err indicates a missing model file.
func IsArtifactNotFound(err error) bool {
	var ae artifactNotFoundError
	return errors.As(err, &ae)
}

// dependencyUnavailableError signals a backend that was not compiled in or
// whose native runtime is missing.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var de dependencyUnavailableError
	return errors.As(err, &de)
}
