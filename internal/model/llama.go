//go:build llama

package model

import (
	"context"
	"errors"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"

	"genbridge/internal/schema"
	"genbridge/internal/tensor"
	"genbridge/internal/tokenizer"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

const llamaOutput = "text"

// llamaModel owns a go-llama.cpp handle. The handle is not safe for
// concurrent prediction, so Predict is serialized.
type llamaModel struct {
	mu      sync.Mutex
	model   *llama.LLama
	path    string
	threads int
	predict int
}

func openLlama(ctx context.Context, opts OpenOptions) (Model, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, ErrLoad(BackendLlama, opts.Path, errors.New("model path is empty"))
	}
	m, err := llama.New(opts.Path, llama.SetContext(zn(opts.LlamaCtx, defaultLlamaCtx)))
	if err != nil {
		return nil, ErrLoad(BackendLlama, opts.Path, err)
	}
	return &llamaModel{
		model:   m,
		path:    opts.Path,
		threads: zn(opts.LlamaThreads, defaultLlamaThreads),
		predict: zn(opts.LlamaPredict, defaultLlamaPredict),
	}, nil
}

func (m *llamaModel) InputFeatures() []schema.Feature {
	return []schema.Feature{
		{Name: tensor.InputIDs, Kind: schema.KindIntegerTensor, ElemType: "int32", Shape: []int64{1, -1}},
		{Name: tensor.AttentionMask, Kind: schema.KindIntegerTensor, ElemType: "int32", Shape: []int64{1, -1}},
	}
}

func (m *llamaModel) OutputFeatures() []schema.Feature {
	return []schema.Feature{{Name: llamaOutput, Kind: schema.KindString, ElemType: "string"}}
}

// Predict recovers the prompt from input_ids (the placeholder tokenizer is
// reversible for ASCII) and lets llama.cpp tokenize it properly.
func (m *llamaModel) Predict(ctx context.Context, in tensor.Bundle) (Outputs, error) {
	ids, ok := in[tensor.InputIDs]
	if !ok {
		return nil, errors.New("missing input: " + tensor.InputIDs)
	}
	prompt := tokenizer.Detokenize(ids.Int64Data())

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.model == nil {
		return nil, errors.New("llama model not initialized")
	}
	m.model.SetTokenCallback(func(string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	text, err := m.model.Predict(prompt,
		llama.SetTokens(m.predict),
		llama.SetThreads(m.threads),
		llama.SetTopP(llama.DefaultOptions.TopP),
		llama.SetTopK(llama.DefaultOptions.TopK),
		llama.SetTemperature(llama.DefaultOptions.Temperature),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return Outputs{llamaOutput: StringValue(text)}, nil
}

func (m *llamaModel) Info() Info {
	return Info{Backend: BackendLlama, Path: m.path, Summary: "llama.cpp model: " + m.path}
}

func (m *llamaModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.model != nil {
		m.model.Free()
		m.model = nil
	}
	return nil
}
