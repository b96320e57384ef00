// Package adapter turns a loaded model with an introspectable schema into a
// text-in/text-out service. It is structured into small files by concern:
//
//   - adapter.go: Adapter facade, load state machine, generation path.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - types.go: State, Outcome, Reason, Result.
//   - invoker.go: Infer, the guarded model call.
//   - resolver.go: Resolve, which interprets the first declared output.
//   - fallback.go: Responder, the canned-reply generator.
//   - pool.go: bounded worker pool for load and inference work.
//   - events.go / eventpub_memory.go: lifecycle events.
//   - metrics.go: Prometheus collectors.
//   - status.go: Status and ModelInfo reporting.
//
// Generation never fails for model-related reasons: a missing model, a schema
// the builder cannot satisfy, an inference error or an uninterpretable output
// all produce a fallback reply whose annotation says why.
//
// Concurrency: loads are serialized; generations run concurrently on the
// worker pool and each builds its own tensors. A generation that starts while
// a reload is in flight uses whichever handle was current when it started;
// there is no transactional guarantee between the two. Retired handles are
// closed once the generations using them finish. Work is not cancellable once
// submitted.
package adapter
