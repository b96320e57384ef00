//go:build !onnx

package model

import "context"

// onnxBuilt indicates this binary was compiled with ONNX Runtime support.
var onnxBuilt = false

// openONNX fails fast: the ONNX runtime is not linked into this build.
func openONNX(ctx context.Context, opts OpenOptions) (Model, error) {
	return nil, ErrLoad(BackendONNX, opts.Path, ErrDependencyUnavailable("onnx support not built (missing 'onnx' build tag)"))
}
