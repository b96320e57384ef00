package model

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"genbridge/internal/common/fsutil"
)

// Backend names accepted by Open.
const (
	BackendAuto  = "auto"
	BackendDemo  = "demo"
	BackendONNX  = "onnx"
	BackendLlama = "llama"
)

// Defaults applied when corresponding OpenOptions fields are unset.
const (
	defaultDemoLoadDelay  = 2 * time.Second
	defaultDemoInferDelay = 500 * time.Millisecond
	defaultLlamaCtx       = 2048
	defaultLlamaThreads   = 4
	defaultLlamaPredict   = 100
)

// OpenOptions selects and tunes a backend.
type OpenOptions struct {
	Backend string
	Path    string
	// ONNX runtime shared library; empty lets the runtime use its default.
	ORTLibrary string
	// llama.cpp tunables (no envs; set by callers)
	LlamaCtx     int
	LlamaThreads int
	LlamaPredict int
	// Demo backend timing. Negative disables the delay.
	DemoLoadDelay  time.Duration
	DemoInferDelay time.Duration
}

// BackendForPath picks a backend from an artifact extension.
func BackendForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".onnx":
		return BackendONNX
	case ".gguf":
		return BackendLlama
	default:
		return ""
	}
}

// Open loads a model with the configured backend.
func Open(ctx context.Context, opts OpenOptions) (Model, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" || backend == BackendAuto {
		backend = BackendForPath(opts.Path)
		if backend == "" {
			return nil, ErrLoad(BackendAuto, opts.Path, fmt.Errorf("cannot infer backend from %q", filepath.Ext(opts.Path)))
		}
	}
	if backend != BackendDemo {
		p, err := fsutil.ExpandHome(opts.Path)
		if err != nil {
			return nil, ErrLoad(backend, opts.Path, err)
		}
		if strings.TrimSpace(p) == "" || !fsutil.PathExists(p) {
			return nil, ErrLoad(backend, opts.Path, ErrArtifactNotFound(opts.Path))
		}
		opts.Path = p
	}
	switch backend {
	case BackendDemo:
		return openDemo(ctx, opts)
	case BackendONNX:
		return openONNX(ctx, opts)
	case BackendLlama:
		return openLlama(ctx, opts)
	default:
		return nil, ErrLoad(backend, opts.Path, fmt.Errorf("unknown backend %q", backend))
	}
}

// NewLoader returns a Loader that resolves the artifact path on every load
// (so a model dropped into the bundle later is picked up) and opens it.
// A nil resolve uses opts.Path as given.
func NewLoader(opts OpenOptions, resolve func() (string, error)) Loader {
	return LoaderFunc(func(ctx context.Context) (Model, error) {
		o := opts
		if resolve != nil && o.Path == "" && o.Backend != BackendDemo {
			p, err := resolve()
			if err != nil {
				return nil, ErrLoad(o.Backend, o.Path, err)
			}
			o.Path = p
		}
		return Open(ctx, o)
	})
}

func zd(v, def time.Duration) time.Duration {
	if v < 0 {
		return 0
	}
	if v == 0 {
		return def
	}
	return v
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// Available reports whether a backend is compiled into this binary.
func Available(backend string) bool {
	switch backend {
	case BackendDemo, BackendAuto:
		return true
	case BackendONNX:
		return onnxBuilt
	case BackendLlama:
		return llamaBuilt
	default:
		return false
	}
}
