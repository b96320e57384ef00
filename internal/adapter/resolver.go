package adapter

import (
	"fmt"

	"genbridge/internal/model"
	"genbridge/internal/schema"
)

// Resolve interprets the first declared output by its declared kind. Integer
// tensors are described by element count (no detokenization); strings are
// returned verbatim.
// Anything else is a soft failure: the result is tagged as a fallback with
// ReasonFormatNotCompatible and carries no text, leaving the reply to the
// Responder.
func Resolve(prompt string, outputs model.Outputs, declared []schema.Feature) Result {
	incompatible := Result{Outcome: OutcomeFallback, Reason: ReasonFormatNotCompatible}
	if len(outputs) == 0 || len(declared) == 0 {
		return incompatible
	}
	first := declared[0]
	v, ok := outputs[first.Name]
	if !ok {
		return incompatible
	}
	switch first.Kind {
	case schema.KindIntegerTensor:
		n := v.Count
		if v.Tensor != nil {
			n = v.Tensor.NumElements()
		}
		return Result{
			Outcome: OutcomeSuccess,
			Text:    fmt.Sprintf("Generated %d tokens for prompt: '%s'", n, prompt),
		}
	case schema.KindString:
		if v.Text == "" {
			return incompatible
		}
		return Result{Outcome: OutcomeSuccess, Text: v.Text}
	default:
		return incompatible
	}
}
