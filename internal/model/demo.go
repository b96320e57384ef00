package model

import (
	"context"
	"fmt"
	"time"

	"genbridge/internal/schema"
	"genbridge/internal/tensor"
	"genbridge/internal/tokenizer"
)

// demoOutput is the single output the demo model declares.
const demoOutput = "text"

// demoModel simulates a loaded text model: it sleeps to mimic load and
// inference latency and echoes the prompt it can recover from input_ids.
type demoModel struct {
	inferDelay time.Duration
}

func openDemo(ctx context.Context, opts OpenOptions) (Model, error) {
	if err := sleepCtx(ctx, zd(opts.DemoLoadDelay, defaultDemoLoadDelay)); err != nil {
		return nil, ErrLoad(BackendDemo, "", err)
	}
	return &demoModel{inferDelay: zd(opts.DemoInferDelay, defaultDemoInferDelay)}, nil
}

func (m *demoModel) InputFeatures() []schema.Feature {
	return []schema.Feature{
		{Name: tensor.InputIDs, Kind: schema.KindIntegerTensor, ElemType: "int32", Shape: []int64{1, -1}},
		{Name: tensor.AttentionMask, Kind: schema.KindIntegerTensor, ElemType: "int32", Shape: []int64{1, -1}},
		{Name: tensor.PositionIDs, Kind: schema.KindIntegerTensor, ElemType: "int32", Shape: []int64{1, -1}},
	}
}

func (m *demoModel) OutputFeatures() []schema.Feature {
	return []schema.Feature{{Name: demoOutput, Kind: schema.KindString, ElemType: "string"}}
}

func (m *demoModel) Predict(ctx context.Context, in tensor.Bundle) (Outputs, error) {
	ids, ok := in[tensor.InputIDs]
	if !ok {
		return nil, fmt.Errorf("missing input: %s", tensor.InputIDs)
	}
	if err := sleepCtx(ctx, m.inferDelay); err != nil {
		return nil, err
	}
	prompt := tokenizer.Detokenize(ids.Int64Data())
	return Outputs{demoOutput: StringValue(fmt.Sprintf("Response to: '%s'", prompt))}, nil
}

func (m *demoModel) Info() Info {
	return Info{Backend: BackendDemo, Summary: "demo model (simulated load and inference)"}
}

func (m *demoModel) Close() error { return nil }

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
