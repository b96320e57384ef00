package adapter

import (
	"context"
	"fmt"

	"genbridge/internal/model"
	"genbridge/internal/schema"
	"genbridge/internal/tensor"
)

// Infer calls the model with a built input bundle. declared is the model's
// input schema for this call; every declared input must be present in the
// bundle with a compatible shape, otherwise the call is refused before it
// reaches the model. All failures, including panics inside the backend, are
// returned as inference errors. On success the output bundle is returned
// unmodified.
func Infer(ctx context.Context, m model.Model, declared []schema.Feature, in tensor.Bundle) (out model.Outputs, err error) {
	if len(in) == 0 {
		return nil, ErrInference(errEmptyBundle)
	}
	for _, f := range declared {
		t, ok := in[f.Name]
		if !ok {
			return nil, ErrInference(fmt.Errorf("model requires input %q which cannot be built", f.Name))
		}
		if err := checkShape(f, t.Shape()); err != nil {
			return nil, ErrInference(err)
		}
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, ErrInference(panicError(r))
		}
	}()
	out, err = m.Predict(ctx, in)
	if err != nil {
		return nil, ErrInference(err)
	}
	return out, nil
}

// checkShape compares fixed declared dimensions with the built shape.
// Dynamic (<= 0) dimensions and unknown shapes always match.
func checkShape(f schema.Feature, got []int64) error {
	if len(f.Shape) == 0 {
		return nil
	}
	if len(f.Shape) != len(got) {
		return fmt.Errorf("input %q: rank %d does not match declared shape %v", f.Name, len(got), f.Shape)
	}
	for i, d := range f.Shape {
		if d > 0 && d != got[i] {
			return fmt.Errorf("input %q: shape %v does not match declared shape %v", f.Name, got, f.Shape)
		}
	}
	return nil
}
