//go:build !llama

package model

import "context"

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = false

// openLlama refuses to load without the 'llama' build tag. This avoids any
// mocked behavior in binaries built without CGO support.
func openLlama(ctx context.Context, opts OpenOptions) (Model, error) {
	return nil, ErrLoad(BackendLlama, opts.Path, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)"))
}
