package adapter

import "time"

// State represents the lifecycle state of the adapter's model handle.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateLoaded   State = "loaded"
)

// Outcome tags how a generation was produced.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFallback Outcome = "fallback"
)

// Reason explains why a fallback fired. Empty for successful generations.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonModelNotLoaded      Reason = "model not loaded"
	ReasonFormatNotCompatible Reason = "format not compatible"
	ReasonInferenceError      Reason = "inference error"
)

// Result is the tagged outcome of one generation. Only Text crosses the host
// boundary; the rest is bookkeeping for logs, metrics and tests.
type Result struct {
	CallID   string
	Text     string
	Outcome  Outcome
	Reason   Reason
	Err      error
	Duration time.Duration
}

// IsFallback reports whether the result came from the fallback responder.
func (r Result) IsFallback() bool { return r.Outcome == OutcomeFallback }
