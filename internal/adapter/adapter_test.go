package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genbridge/internal/model"
	"genbridge/internal/schema"
	"genbridge/internal/tensor"
)

func TestGenerateBeforeLoadFallsBack(t *testing.T) {
	a := newTestAdapter(staticLoader(newEchoModel()), nil)

	assert.False(t, a.IsModelLoaded())
	res := a.Generate(context.Background(), "hello", 16)
	assert.Equal(t, OutcomeFallback, res.Outcome)
	assert.Equal(t, ReasonModelNotLoaded, res.Reason)
	assert.Equal(t, DefaultCatalog[0]+" (model not loaded - using fallback responses)", res.Text)
	assert.NotEmpty(t, res.CallID)
}

func TestNotLoadedFallbackWaitsConfiguredDelay(t *testing.T) {
	a := NewWithConfig(Config{FallbackDelay: 40 * time.Millisecond, Selector: fixedSelector(1)})

	start := time.Now()
	text := a.GenerateText(context.Background(), "x", 1)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.True(t, strings.HasPrefix(text, DefaultCatalog[1]))
}

func TestLoadAndGenerateString(t *testing.T) {
	m := newEchoModel()
	a := newTestAdapter(staticLoader(m), nil)

	require.True(t, a.LoadModel(context.Background()))
	assert.True(t, a.IsModelLoaded())
	assert.Equal(t, StateLoaded, a.State())

	res := a.Generate(context.Background(), "hi there", 32)
	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.Equal(t, "echo: hi there", res.Text)

	calls := m.calls()
	require.Len(t, calls, 1)
	assert.ElementsMatch(t, []string{tensor.InputIDs, tensor.AttentionMask}, calls[0].Names())
}

func TestLoadFailureLeavesUnloaded(t *testing.T) {
	pub := NewMemoryPublisher()
	boom := errors.New("boom")
	a := newTestAdapter(model.LoaderFunc(func(context.Context) (model.Model, error) { return nil, boom }), pub)

	assert.False(t, a.LoadModel(context.Background()))
	assert.False(t, a.IsModelLoaded())
	st := a.Status()
	assert.Equal(t, StateUnloaded, st.State)
	assert.Equal(t, "boom", st.LastError)
	assert.EqualValues(t, 1, st.LoadFailures)
	assert.Len(t, pub.Named(EventLoadFailed), 1)

	res := a.Generate(context.Background(), "p", 1)
	assert.Equal(t, ReasonModelNotLoaded, res.Reason)
}

func TestLoadWithoutLoaderFails(t *testing.T) {
	a := newTestAdapter(nil, nil)
	assert.False(t, a.LoadModel(context.Background()))
	assert.Contains(t, a.Status().LastError, "no model loader")
}

func TestLoaderPanicIsLoadFailure(t *testing.T) {
	a := newTestAdapter(model.LoaderFunc(func(context.Context) (model.Model, error) { panic("bad artifact") }), nil)
	assert.False(t, a.LoadModel(context.Background()))
	assert.Contains(t, a.Status().LastError, "bad artifact")
}

func TestIntegerOutputReportsTokenCount(t *testing.T) {
	m := newEchoModel()
	m.inputs = append(m.inputs, intInput(tensor.PositionIDs))
	m.outputs = []schema.Feature{{Name: "logits", Kind: schema.KindIntegerTensor, ElemType: "int64"}}
	m.predict = func(_ context.Context, in tensor.Bundle) (model.Outputs, error) {
		return model.Outputs{"logits": model.IntegerValue(in[tensor.InputIDs])}, nil
	}
	a := newTestAdapter(staticLoader(m), nil)
	require.True(t, a.LoadModel(context.Background()))

	assert.Equal(t, "Generated 5 tokens for prompt: 'hello'", a.GenerateText(context.Background(), "hello", 10))

	calls := m.calls()
	require.Len(t, calls, 1)
	in := calls[0]
	require.Len(t, in, 3)
	assert.Equal(t, []int64{'h', 'e', 'l', 'l', 'o'}, in[tensor.InputIDs].Int64Data())
	assert.Equal(t, []int64{1, 1, 1, 1, 1}, in[tensor.AttentionMask].Int64Data())
	assert.Equal(t, []int64{0, 1, 2, 3, 4}, in[tensor.PositionIDs].Int64Data())
	for _, name := range []string{tensor.InputIDs, tensor.AttentionMask, tensor.PositionIDs} {
		assert.Equal(t, []int64{1, 5}, in[name].Shape(), name)
	}
}

func TestDeclaredOutputKindDecides(t *testing.T) {
	m := newEchoModel()
	m.outputs = []schema.Feature{{Name: "logits", Kind: schema.KindOther, ElemType: "float32"}}
	m.predict = func(_ context.Context, in tensor.Bundle) (model.Outputs, error) {
		return model.Outputs{"logits": model.IntegerValue(in[tensor.InputIDs])}, nil
	}
	a := newTestAdapter(staticLoader(m), nil)
	require.True(t, a.LoadModel(context.Background()))

	res := a.Generate(context.Background(), "hello", 10)
	assert.Equal(t, OutcomeFallback, res.Outcome)
	assert.Equal(t, ReasonFormatNotCompatible, res.Reason)
	assert.Equal(t, DefaultCatalog[0]+" (model loaded but format not compatible. Prompt: 'hello')", res.Text)
}

func TestFloatOutputIsFormatNotCompatible(t *testing.T) {
	m := newEchoModel()
	m.outputs = []schema.Feature{{Name: "scores", Kind: schema.KindOther, ElemType: "float32"}}
	m.predict = func(context.Context, tensor.Bundle) (model.Outputs, error) {
		return model.Outputs{"scores": model.OtherValue(4)}, nil
	}
	a := newTestAdapter(staticLoader(m), nil)
	require.True(t, a.LoadModel(context.Background()))

	res := a.Generate(context.Background(), "abc", 10)
	assert.Equal(t, ReasonFormatNotCompatible, res.Reason)
	assert.Equal(t, DefaultCatalog[0]+" (model loaded but format not compatible. Prompt: 'abc')", res.Text)
}

func TestEmptyStringOutputIsFormatNotCompatible(t *testing.T) {
	m := newEchoModel()
	m.predict = func(context.Context, tensor.Bundle) (model.Outputs, error) {
		return model.Outputs{"text": model.StringValue("")}, nil
	}
	a := newTestAdapter(staticLoader(m), nil)
	require.True(t, a.LoadModel(context.Background()))

	res := a.Generate(context.Background(), "abc", 10)
	assert.Equal(t, ReasonFormatNotCompatible, res.Reason)
	assert.NotEmpty(t, res.Text)
}

func TestPredictErrorIsInferenceError(t *testing.T) {
	m := newEchoModel()
	m.predict = func(context.Context, tensor.Bundle) (model.Outputs, error) {
		return nil, errors.New("device lost")
	}
	a := newTestAdapter(staticLoader(m), nil)
	require.True(t, a.LoadModel(context.Background()))

	res := a.Generate(context.Background(), "why", 10)
	assert.Equal(t, ReasonInferenceError, res.Reason)
	assert.True(t, IsInferenceError(res.Err))
	assert.Equal(t, DefaultCatalog[0]+" (inference error: device lost. Using fallback for: 'why')", res.Text)
}

func TestPredictPanicIsInferenceError(t *testing.T) {
	m := newEchoModel()
	m.predict = func(context.Context, tensor.Bundle) (model.Outputs, error) { panic("kaboom") }
	a := newTestAdapter(staticLoader(m), nil)
	require.True(t, a.LoadModel(context.Background()))

	res := a.Generate(context.Background(), "p", 10)
	assert.Equal(t, ReasonInferenceError, res.Reason)
	assert.Contains(t, res.Text, "kaboom")
}

func TestUnrecognizedInputsOnlyIsFormatNotCompatible(t *testing.T) {
	m := newEchoModel()
	m.inputs = []schema.Feature{intInput("pixel_values")}
	pub := NewMemoryPublisher()
	a := newTestAdapter(staticLoader(m), pub)
	require.True(t, a.LoadModel(context.Background()))

	res := a.Generate(context.Background(), "p", 10)
	assert.Equal(t, ReasonFormatNotCompatible, res.Reason)
	assert.True(t, IsSchemaMismatch(res.Err))
	assert.Empty(t, m.calls(), "model must not be invoked with an empty bundle")
	require.Len(t, pub.Named(EventSchemaSkip), 1)
	assert.Equal(t, []string{"pixel_values"}, pub.Named(EventSchemaSkip)[0].Fields["inputs"])
}

func TestPartiallyRecognizedInputsIsSchemaMismatch(t *testing.T) {
	m := newEchoModel()
	m.inputs = append(m.inputs, intInput("token_type_ids"))
	pub := NewMemoryPublisher()
	a := newTestAdapter(staticLoader(m), pub)
	require.True(t, a.LoadModel(context.Background()))

	res := a.Generate(context.Background(), "p", 10)
	assert.Equal(t, ReasonFormatNotCompatible, res.Reason)
	assert.True(t, IsSchemaMismatch(res.Err))
	assert.False(t, IsInferenceError(res.Err))
	assert.Equal(t, DefaultCatalog[0]+" (model loaded but format not compatible: unsupported inputs: token_type_ids. Prompt: 'p')", res.Text)
	assert.Empty(t, m.calls())

	require.Len(t, pub.Named(EventFallback), 1)
	assert.Equal(t, string(ReasonFormatNotCompatible), pub.Named(EventFallback)[0].Fields["reason"])
}

func TestLongPromptIsTruncatedBeforeInference(t *testing.T) {
	m := newEchoModel()
	a := newTestAdapter(staticLoader(m), nil)
	require.True(t, a.LoadModel(context.Background()))

	prompt := strings.Repeat("a", 120)
	text := a.GenerateText(context.Background(), prompt, 10)
	assert.Equal(t, "echo: "+strings.Repeat("a", 50), text)
	calls := m.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []int64{1, 50}, calls[0][tensor.InputIDs].Shape())
}

func TestEmptyPromptUsesSpaceToken(t *testing.T) {
	m := newEchoModel()
	a := newTestAdapter(staticLoader(m), nil)
	require.True(t, a.LoadModel(context.Background()))

	assert.Equal(t, "echo:  ", a.GenerateText(context.Background(), "", 10))
}

func TestConcurrentGenerationsCorrelate(t *testing.T) {
	m := newEchoModel()
	inner := m.predict
	m.predict = func(ctx context.Context, in tensor.Bundle) (model.Outputs, error) {
		time.Sleep(time.Millisecond)
		return inner(ctx, in)
	}
	a := newTestAdapter(staticLoader(m), nil)
	require.True(t, a.LoadModel(context.Background()))

	const n = 32
	var wg sync.WaitGroup
	got := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = a.GenerateText(context.Background(), fmt.Sprintf("prompt-%d", i), 8)
		}(i)
	}
	wg.Wait()
	for i := 0; i < n; i++ {
		assert.Equal(t, fmt.Sprintf("echo: prompt-%d", i), got[i])
	}
	assert.EqualValues(t, n, a.Status().Generations)
}

func TestReloadRetiresPreviousHandle(t *testing.T) {
	first, second := newEchoModel(), newEchoModel()
	var n atomic.Int32
	a := newTestAdapter(model.LoaderFunc(func(context.Context) (model.Model, error) {
		if n.Add(1) == 1 {
			return first, nil
		}
		return second, nil
	}), nil)

	require.True(t, a.LoadModel(context.Background()))
	require.True(t, a.LoadModel(context.Background()))
	assert.True(t, a.IsModelLoaded())
	assert.Eventually(t, first.closed.Load, time.Second, 5*time.Millisecond)
	assert.False(t, second.closed.Load())

	a.GenerateText(context.Background(), "p", 1)
	assert.Len(t, second.calls(), 1)
	assert.Empty(t, first.calls())
}

func TestReloadKeepsServingUntilSwap(t *testing.T) {
	first := newEchoModel()
	release := make(chan struct{})
	var n atomic.Int32
	a := newTestAdapter(model.LoaderFunc(func(context.Context) (model.Model, error) {
		if n.Add(1) == 1 {
			return first, nil
		}
		<-release
		return newEchoModel(), nil
	}), nil)
	require.True(t, a.LoadModel(context.Background()))

	done := a.LoadModelAsync()
	assert.Eventually(t, func() bool { return a.Status().Reloading }, time.Second, time.Millisecond)
	assert.True(t, a.IsModelLoaded())
	assert.Equal(t, "echo: during", a.GenerateText(context.Background(), "during", 1))

	close(release)
	assert.True(t, <-done)
	assert.False(t, a.Status().Reloading)
}

func TestFailedReloadUnloads(t *testing.T) {
	first := newEchoModel()
	var n atomic.Int32
	a := newTestAdapter(model.LoaderFunc(func(context.Context) (model.Model, error) {
		if n.Add(1) == 1 {
			return first, nil
		}
		return nil, errors.New("gone")
	}), nil)
	require.True(t, a.LoadModel(context.Background()))
	assert.False(t, a.LoadModel(context.Background()))
	assert.False(t, a.IsModelLoaded())
	assert.Eventually(t, first.closed.Load, time.Second, 5*time.Millisecond)
}

func TestLoadModelHonoursCallerContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	a := newTestAdapter(model.LoaderFunc(func(context.Context) (model.Model, error) {
		<-release
		return newEchoModel(), nil
	}), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, a.LoadModel(ctx))
}

func TestEventsPublished(t *testing.T) {
	pub := NewMemoryPublisher()
	a := newTestAdapter(staticLoader(newEchoModel()), pub)
	require.True(t, a.LoadModel(context.Background()))
	res := a.Generate(context.Background(), "p", 3)

	names := make([]string, 0)
	for _, e := range pub.Events() {
		names = append(names, e.Name)
		assert.False(t, e.Time.IsZero())
	}
	assert.Equal(t, []string{EventLoadStart, EventLoadReady, EventGenerateStart, EventGenerateDone}, names)
	done := pub.Named(EventGenerateDone)[0]
	assert.Equal(t, res.CallID, done.CallID)
	assert.Equal(t, "success", done.Fields["outcome"])
	assert.Equal(t, 3, pub.Named(EventGenerateStart)[0].Fields["max_tokens"])
}

func TestMultiPublisherFansOut(t *testing.T) {
	p1, p2 := NewMemoryPublisher(), NewMemoryPublisher()
	a := newTestAdapter(nil, MultiPublisher{p1, nil, p2})
	a.Generate(context.Background(), "p", 1)
	assert.Len(t, p1.Named(EventFallback), 1)
	assert.Len(t, p2.Named(EventFallback), 1)
}

func TestStatusAndModelInfo(t *testing.T) {
	a := newTestAdapter(staticLoader(newEchoModel()), nil)
	_, ok := a.ModelInfo()
	assert.False(t, ok)

	require.True(t, a.LoadModel(context.Background()))
	d, ok := a.ModelInfo()
	require.True(t, ok)
	assert.Equal(t, "fake", d.Info.Backend)
	assert.Equal(t, []string{tensor.InputIDs, tensor.AttentionMask}, schema.Names(d.Schema.Inputs))

	a.Generate(context.Background(), "p", 1)
	st := a.Status()
	assert.Equal(t, StateLoaded, st.State)
	require.NotNil(t, st.Model)
	assert.Equal(t, "fake", st.Model.Backend)
	assert.EqualValues(t, 1, st.Loads)
	assert.EqualValues(t, 1, st.Generations)
	assert.EqualValues(t, 0, st.Fallbacks)
	assert.False(t, st.LoadedAt.IsZero())
}

func TestCloseReleasesModel(t *testing.T) {
	m := newEchoModel()
	a := newTestAdapter(staticLoader(m), nil)
	require.True(t, a.LoadModel(context.Background()))
	require.NoError(t, a.Close())
	assert.True(t, m.closed.Load())
	assert.False(t, a.IsModelLoaded())
	require.NoError(t, a.Close())
}

func TestGenerateIgnoresCallerCancellation(t *testing.T) {
	m := newEchoModel()
	a := newTestAdapter(staticLoader(m), nil)
	require.True(t, a.LoadModel(context.Background()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, "echo: still", a.GenerateText(ctx, "still", 1))
}
