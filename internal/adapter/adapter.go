package adapter

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"genbridge/internal/model"
	"genbridge/internal/schema"
	"genbridge/internal/tensor"
	"genbridge/internal/tokenizer"
)

// Adapter owns at most one model handle and serves text generation over it.
type Adapter struct {
	mu        sync.RWMutex
	state     State
	cur       *handle
	reloading bool
	lastErr   string
	publisher EventPublisher

	// loadMu serializes loads; the state lock is never held across a load.
	loadMu sync.Mutex

	loader    model.Loader
	responder *Responder
	pool      *pool
	log       zerolog.Logger
	startTime time.Time

	loads        atomic.Uint64
	loadFailures atomic.Uint64
	generations  atomic.Uint64
	fallbacks    atomic.Uint64
	inflight     atomic.Int64
}

// handle is one loaded model plus the generations currently using it.
type handle struct {
	m        model.Model
	loadedAt time.Time
	inflight sync.WaitGroup
}

// LoadModelAsync starts a load on the worker pool and returns a channel that
// receives exactly one value: true iff the load succeeded.
func (a *Adapter) LoadModelAsync() <-chan bool {
	ch := make(chan bool, 1)
	a.pool.Go(func() { ch <- a.load(context.Background()) })
	return ch
}

// LoadModel loads the model and reports whether it succeeded. If ctx ends
// first LoadModel returns false; the load itself keeps running and its
// outcome is visible through IsModelLoaded.
func (a *Adapter) LoadModel(ctx context.Context) bool {
	select {
	case ok := <-a.LoadModelAsync():
		return ok
	case <-ctx.Done():
		return false
	}
}

func (a *Adapter) load(ctx context.Context) bool {
	a.loadMu.Lock()
	defer a.loadMu.Unlock()

	a.mu.Lock()
	if a.cur == nil {
		a.state = StateLoading
	} else {
		a.reloading = true
	}
	a.mu.Unlock()

	a.publish(Event{Name: EventLoadStart})
	a.log.Info().Str("event", EventLoadStart).Msg("loading model")
	start := time.Now()

	m, err := a.safeLoad(ctx)
	dur := time.Since(start)

	a.mu.Lock()
	old := a.cur
	a.reloading = false
	if err != nil {
		a.cur = nil
		a.state = StateUnloaded
		a.lastErr = err.Error()
	} else {
		a.cur = &handle{m: m, loadedAt: time.Now()}
		a.state = StateLoaded
		a.lastErr = ""
	}
	a.mu.Unlock()

	if old != nil {
		go a.retire(old)
	}
	a.loads.Add(1)
	if err != nil {
		a.loadFailures.Add(1)
		loadsTotal.WithLabelValues("failure").Inc()
		modelLoaded.Set(0)
		a.publish(Event{Name: EventLoadFailed, Fields: map[string]any{"error": err.Error(), "duration_ms": dur.Milliseconds()}})
		a.log.Error().Err(err).Str("event", EventLoadFailed).Dur("dur", dur).Msg("model load failed")
		return false
	}
	loadsTotal.WithLabelValues("success").Inc()
	modelLoaded.Set(1)
	info := m.Info()
	a.publish(Event{Name: EventLoadReady, Fields: map[string]any{"backend": info.Backend, "path": info.Path, "duration_ms": dur.Milliseconds()}})
	a.log.Info().Str("event", EventLoadReady).Str("backend", info.Backend).Str("path", info.Path).Dur("dur", dur).Msg("model loaded")
	return true
}

func (a *Adapter) safeLoad(ctx context.Context) (m model.Model, err error) {
	if a.loader == nil {
		return nil, errNoLoader
	}
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, panicError(r)
		}
	}()
	m, err = a.loader.Load(ctx)
	if err == nil && m == nil {
		err = errNoLoader
	}
	return m, err
}

// retire closes a replaced handle once its in-flight generations finish.
func (a *Adapter) retire(h *handle) {
	h.inflight.Wait()
	if err := h.m.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing retired model")
	}
}

// IsModelLoaded reports whether a model handle is currently available.
func (a *Adapter) IsModelLoaded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state == StateLoaded
}

// State returns the current lifecycle state.
func (a *Adapter) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// GenerateText is Generate reduced to its reply text. The text is never empty.
func (a *Adapter) GenerateText(ctx context.Context, prompt string, maxTokens int) string {
	return a.Generate(ctx, prompt, maxTokens).Text
}

// Generate produces one reply for prompt and blocks until it is ready.
// maxTokens is accepted for interface compatibility and reported in events;
// it does not cap the output.
func (a *Adapter) Generate(ctx context.Context, prompt string, maxTokens int) Result {
	return <-a.GenerateAsync(ctx, prompt, maxTokens)
}

// GenerateAsync schedules a generation and returns a channel that receives
// exactly one Result. Generations are not cancellable once scheduled; only
// ctx values are carried to the model.
func (a *Adapter) GenerateAsync(ctx context.Context, prompt string, maxTokens int) <-chan Result {
	ctx = context.WithoutCancel(ctx)
	ch := make(chan Result, 1)
	callID := uuid.NewString()
	start := time.Now()

	a.mu.RLock()
	h := a.cur
	if h != nil {
		h.inflight.Add(1)
	}
	a.mu.RUnlock()

	a.generations.Add(1)
	a.publish(Event{Name: EventGenerateStart, CallID: callID, Fields: map[string]any{"max_tokens": maxTokens, "prompt_len": len(prompt)}})

	if h == nil {
		go func() {
			ch <- a.finish(a.fallback(ctx, callID, prompt, ReasonModelNotLoaded, nil), start)
		}()
		return ch
	}
	a.pool.Go(func() {
		defer h.inflight.Done()
		a.inflight.Add(1)
		inflightGenerations.Inc()
		res := a.generateWith(ctx, callID, h.m, prompt)
		inflightGenerations.Dec()
		a.inflight.Add(-1)
		ch <- a.finish(res, start)
	})
	return ch
}

func (a *Adapter) generateWith(ctx context.Context, callID string, m model.Model, prompt string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = a.fallback(ctx, callID, prompt, ReasonInferenceError, ErrInference(panicError(r)))
		}
	}()

	tokens := tokenizer.Tokenize(prompt)
	desc := schema.Describe(m)
	bundle, skipped := tensor.BuildBundle(desc.Inputs, tokens)
	if len(skipped) > 0 {
		a.publish(Event{Name: EventSchemaSkip, CallID: callID, Fields: map[string]any{"inputs": skipped}})
		a.log.Warn().Str("event", EventSchemaSkip).Str("call_id", callID).Strs("inputs", skipped).Msg("model declares inputs that cannot be built")
		return a.fallback(ctx, callID, prompt, ReasonFormatNotCompatible, ErrSchemaMismatch(skipped))
	}
	if len(bundle) == 0 {
		return a.fallback(ctx, callID, prompt, ReasonFormatNotCompatible, nil)
	}

	t0 := time.Now()
	out, err := Infer(ctx, m, desc.Inputs, bundle)
	inferenceDuration.Observe(time.Since(t0).Seconds())
	if err != nil {
		return a.fallback(ctx, callID, prompt, ReasonInferenceError, err)
	}

	res = Resolve(prompt, out, desc.Outputs)
	if res.IsFallback() {
		return a.fallback(ctx, callID, prompt, res.Reason, nil)
	}
	res.CallID = callID
	return res
}

func (a *Adapter) fallback(ctx context.Context, callID, prompt string, reason Reason, cause error) Result {
	a.fallbacks.Add(1)
	ev := a.log.Warn().Str("event", EventFallback).Str("call_id", callID).Str("reason", string(reason))
	if cause != nil {
		ev = ev.Err(cause)
	}
	ev.Msg("using fallback response")
	fields := map[string]any{"reason": string(reason)}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	a.publish(Event{Name: EventFallback, CallID: callID, Fields: fields})
	return Result{
		CallID:  callID,
		Text:    a.responder.Respond(ctx, prompt, reason, cause),
		Outcome: OutcomeFallback,
		Reason:  reason,
		Err:     cause,
	}
}

func (a *Adapter) finish(res Result, start time.Time) Result {
	res.Duration = time.Since(start)
	generationsTotal.WithLabelValues(string(res.Outcome), reasonLabel(res.Reason)).Inc()
	a.publish(Event{Name: EventGenerateDone, CallID: res.CallID, Fields: map[string]any{
		"outcome":     string(res.Outcome),
		"reason":      string(res.Reason),
		"duration_ms": res.Duration.Milliseconds(),
	}})
	a.log.Debug().Str("event", EventGenerateDone).Str("call_id", res.CallID).Str("outcome", string(res.Outcome)).Dur("dur", res.Duration).Msg("generation finished")
	return res
}

func (a *Adapter) publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	a.mu.RLock()
	p := a.publisher
	a.mu.RUnlock()
	p.Publish(e)
}

// Close unloads the current model, waiting for in-flight generations first.
func (a *Adapter) Close() error {
	a.loadMu.Lock()
	defer a.loadMu.Unlock()
	a.mu.Lock()
	h := a.cur
	a.cur = nil
	a.state = StateUnloaded
	a.mu.Unlock()
	modelLoaded.Set(0)
	if h == nil {
		return nil
	}
	h.inflight.Wait()
	return h.m.Close()
}
