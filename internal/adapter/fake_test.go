package adapter

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"genbridge/internal/model"
	"genbridge/internal/schema"
	"genbridge/internal/tensor"
	"genbridge/internal/tokenizer"
)

// fakeModel is a configurable in-memory model for adapter tests.
type fakeModel struct {
	inputs  []schema.Feature
	outputs []schema.Feature
	predict func(ctx context.Context, in tensor.Bundle) (model.Outputs, error)

	mu     sync.Mutex
	seen   []tensor.Bundle
	closed atomic.Bool
}

func intInput(name string) schema.Feature {
	return schema.Feature{Name: name, Kind: schema.KindIntegerTensor, ElemType: "int32", Shape: []int64{1, -1}}
}

// newEchoModel declares input_ids and a string output that echoes the
// detokenized prompt.
func newEchoModel() *fakeModel {
	return &fakeModel{
		inputs:  []schema.Feature{intInput(tensor.InputIDs), intInput(tensor.AttentionMask)},
		outputs: []schema.Feature{{Name: "text", Kind: schema.KindString, ElemType: "string"}},
		predict: func(_ context.Context, in tensor.Bundle) (model.Outputs, error) {
			p := tokenizer.Detokenize(in[tensor.InputIDs].Int64Data())
			return model.Outputs{"text": model.StringValue("echo: " + p)}, nil
		},
	}
}

func (m *fakeModel) InputFeatures() []schema.Feature  { return m.inputs }
func (m *fakeModel) OutputFeatures() []schema.Feature { return m.outputs }

func (m *fakeModel) Predict(ctx context.Context, in tensor.Bundle) (model.Outputs, error) {
	m.mu.Lock()
	m.seen = append(m.seen, in)
	m.mu.Unlock()
	if m.predict == nil {
		return nil, fmt.Errorf("no predict configured")
	}
	return m.predict(ctx, in)
}

func (m *fakeModel) Info() model.Info { return model.Info{Backend: "fake", Summary: "fake model"} }

func (m *fakeModel) Close() error {
	m.closed.Store(true)
	return nil
}

func (m *fakeModel) calls() []tensor.Bundle {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]tensor.Bundle, len(m.seen))
	copy(out, m.seen)
	return out
}

// staticLoader always returns the same model.
func staticLoader(m model.Model) model.Loader {
	return model.LoaderFunc(func(context.Context) (model.Model, error) { return m, nil })
}

// fixedSelector always picks index i.
func fixedSelector(i int) Selector { return func(int) int { return i } }

// newTestAdapter builds an adapter without fallback delays.
func newTestAdapter(l model.Loader, pub EventPublisher) *Adapter {
	return NewWithConfig(Config{
		Loader:        l,
		Workers:       4,
		FallbackDelay: -1,
		Selector:      fixedSelector(0),
		Publisher:     pub,
	})
}
