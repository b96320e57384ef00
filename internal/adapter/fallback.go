package adapter

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// DefaultOpener is used when the catalog is empty or the selector returns an
// out-of-range index.
const DefaultOpener = "I'm processing your request."

// DefaultCatalog holds the canned conversational openers.
var DefaultCatalog = []string{
	"That's an interesting question! Let me think about that.",
	"I understand what you're asking. Here's my perspective:",
	"Based on what you've said, I would suggest:",
	"That's a great point. I think we could explore:",
	"I see what you mean. Perhaps we could consider:",
}

// Selector picks an index in [0, n). n is always > 0.
type Selector func(n int) int

// RandomSelector selects uniformly at random.
func RandomSelector(n int) int { return rand.IntN(n) }

// Responder produces canned replies annotated with the reason a fallback
// fired.
type Responder struct {
	catalog        []string
	selector       Selector
	notLoadedDelay time.Duration
	errorDelay     time.Duration
}

// NewResponder builds a Responder. A nil selector selects at random; a nil
// catalog uses DefaultCatalog. Delays <= 0 disable the corresponding pause.
func NewResponder(catalog []string, selector Selector, notLoadedDelay, errorDelay time.Duration) *Responder {
	if catalog == nil {
		catalog = DefaultCatalog
	}
	if selector == nil {
		selector = RandomSelector
	}
	cp := make([]string, len(catalog))
	copy(cp, catalog)
	return &Responder{catalog: cp, selector: selector, notLoadedDelay: notLoadedDelay, errorDelay: errorDelay}
}

// Respond waits the delay configured for reason, then returns the annotated
// reply. It never returns an empty string.
func (r *Responder) Respond(ctx context.Context, prompt string, reason Reason, cause error) string {
	d := r.errorDelay
	if reason == ReasonModelNotLoaded {
		d = r.notLoadedDelay
	}
	if d > 0 {
		t := time.NewTimer(d)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
		}
	}
	return r.Annotate(prompt, reason, cause)
}

// Annotate returns the reply without any delay.
func (r *Responder) Annotate(prompt string, reason Reason, cause error) string {
	opener := r.opener()
	switch reason {
	case ReasonModelNotLoaded:
		return fmt.Sprintf("%s (model not loaded - using fallback responses)", opener)
	case ReasonFormatNotCompatible:
		if cause != nil {
			return fmt.Sprintf("%s (model loaded but format not compatible: %s. Prompt: '%s')", opener, cause.Error(), prompt)
		}
		return fmt.Sprintf("%s (model loaded but format not compatible. Prompt: '%s')", opener, prompt)
	case ReasonInferenceError:
		msg := "unknown error"
		if cause != nil {
			msg = cause.Error()
		}
		return fmt.Sprintf("%s (inference error: %s. Using fallback for: '%s')", opener, msg, prompt)
	default:
		return opener
	}
}

func (r *Responder) opener() string {
	if len(r.catalog) == 0 {
		return DefaultOpener
	}
	i := r.selector(len(r.catalog))
	if i < 0 || i >= len(r.catalog) || r.catalog[i] == "" {
		return DefaultOpener
	}
	return r.catalog[i]
}
