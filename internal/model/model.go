// Package model defines the loaded-model handle the adapter drives and the
// backends that can produce one.
//
// Backends:
//
//   - demo: in-process simulated model, always available. It declares the
//     standard transformer inputs and a single string output.
//   - onnx: ONNX Runtime via github.com/yalue/onnxruntime_go. Enabled with
//     `-tags=onnx`; without the tag Open fails with a dependency-unavailable
//     error (onnx_stub.go).
//   - llama: llama.cpp via github.com/go-skynet/go-llama.cpp. Enabled with
//     `-tags=llama`; stubbed otherwise (llama_stub.go).
package model

import (
	"context"

	"genbridge/internal/schema"
	"genbridge/internal/tensor"
)

// Model is a loaded model with an introspectable schema.
// Implementations must allow concurrent Predict calls.
type Model interface {
	schema.Source
	// Predict runs inference on a fully built input bundle and returns one
	// value per declared output.
	Predict(ctx context.Context, in tensor.Bundle) (Outputs, error)
	// Info describes the model for status and diagnostics.
	Info() Info
	// Close releases backend resources.
	Close() error
}

// Info is a human-facing description of a loaded model.
type Info struct {
	Backend string `json:"backend"`
	Path    string `json:"path,omitempty"`
	Summary string `json:"summary"`
}

// Value is one output produced by a model.
type Value struct {
	Kind   schema.Kind
	Tensor *tensor.Tensor
	Text   string
	// Count is the element count for tensor outputs of any kind.
	Count int64
}

// IntegerValue wraps an integer tensor output.
func IntegerValue(t *tensor.Tensor) Value {
	return Value{Kind: schema.KindIntegerTensor, Tensor: t, Count: t.NumElements()}
}

// StringValue wraps a string output.
func StringValue(s string) Value {
	return Value{Kind: schema.KindString, Text: s}
}

// OtherValue records an output the adapter cannot interpret.
func OtherValue(count int64) Value {
	return Value{Kind: schema.KindOther, Count: count}
}

// Outputs maps declared output names to values.
type Outputs map[string]Value

// Loader produces a fresh model handle.
type Loader interface {
	Load(ctx context.Context) (Model, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (Model, error)

func (f LoaderFunc) Load(ctx context.Context) (Model, error) { return f(ctx) }
