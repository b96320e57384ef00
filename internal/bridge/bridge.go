// Package bridge exposes the adapter to a host over a named-method channel:
// the host sends a method name and an argument map and receives exactly one
// reply per call.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"genbridge/internal/adapter"
)

// Method is a host-callable method name.
type Method string

const (
	MethodLoadModel     Method = "loadModel"
	MethodGenerateText  Method = "generateText"
	MethodIsModelLoaded Method = "isModelLoaded"
	MethodGetModelInfo  Method = "getModelInfo"
)

// Argument names for generateText.
const (
	ArgPrompt    = "prompt"
	ArgMaxTokens = "maxTokens"
)

// Call is one host invocation.
type Call struct {
	Method    string         `json:"method"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Service is what the bridge dispatches to. *adapter.Adapter implements it.
type Service interface {
	LoadModel(ctx context.Context) bool
	GenerateText(ctx context.Context, prompt string, maxTokens int) string
	IsModelLoaded() bool
	ModelInfo() (adapter.Details, bool)
}

// Dispatch runs one call synchronously. Results are bool for loadModel and
// isModelLoaded, string for generateText, and *adapter.Details (nil when no
// model is loaded) for getModelInfo.
func Dispatch(ctx context.Context, svc Service, call Call) (any, error) {
	switch Method(call.Method) {
	case MethodLoadModel:
		return svc.LoadModel(ctx), nil
	case MethodGenerateText:
		prompt, maxTokens, err := GenerateArgs(call.Arguments)
		if err != nil {
			return nil, err
		}
		return svc.GenerateText(ctx, prompt, maxTokens), nil
	case MethodIsModelLoaded:
		return svc.IsModelLoaded(), nil
	case MethodGetModelInfo:
		d, ok := svc.ModelInfo()
		if !ok {
			return (*adapter.Details)(nil), nil
		}
		return &d, nil
	default:
		return nil, ErrNotImplemented(call.Method)
	}
}

// GenerateArgs extracts and type-checks generateText arguments. Both are
// required; maxTokens must be an integral number.
func GenerateArgs(args map[string]any) (string, int, error) {
	raw, ok := args[ArgPrompt]
	if !ok {
		return "", 0, ErrInvalidArguments("missing %q", ArgPrompt)
	}
	prompt, ok := raw.(string)
	if !ok {
		return "", 0, ErrInvalidArguments("%q must be a string", ArgPrompt)
	}
	raw, ok = args[ArgMaxTokens]
	if !ok {
		return "", 0, ErrInvalidArguments("missing %q", ArgMaxTokens)
	}
	n, ok := toInt(raw)
	if !ok {
		return "", 0, ErrInvalidArguments("%q must be an integer within int32 range", ArgMaxTokens)
	}
	return prompt, n, nil
}

// toInt bounds maxTokens to the int32 range whatever its JSON encoding.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return inRange(int64(n))
	case int32:
		return int(n), true
	case int64:
		return inRange(n)
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return inRange(i)
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	default:
		return 0, false
	}
}

func inRange(n int64) (int, bool) {
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, false
	}
	return int(n), true
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// Reply receives the outcome of one call.
type Reply func(result any, err error)

// Channel delivers calls to a Service off the caller's goroutine.
type Channel struct {
	svc Service
	log zerolog.Logger
}

// NewChannel builds a Channel over svc.
func NewChannel(svc Service, log zerolog.Logger) *Channel {
	return &Channel{svc: svc, log: log.With().Str("component", "bridge").Logger()}
}

// Invoke dispatches call on a new goroutine and calls reply exactly once,
// including when the service panics.
func (c *Channel) Invoke(ctx context.Context, call Call, reply Reply) {
	var once sync.Once
	send := func(res any, err error) { once.Do(func() { reply(res, err) }) }
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.log.Error().Interface("panic", r).Str("method", call.Method).Msg("bridge call panicked")
				send(nil, fmt.Errorf("%s: panic: %v", call.Method, r))
			}
		}()
		res, err := Dispatch(ctx, c.svc, call)
		if err != nil {
			c.log.Warn().Err(err).Str("method", call.Method).Str("code", Code(err)).Msg("bridge call rejected")
		}
		send(res, err)
	}()
}

// Call dispatches and waits for the reply.
func (c *Channel) Call(ctx context.Context, call Call) (any, error) {
	type out struct {
		res any
		err error
	}
	ch := make(chan out, 1)
	c.Invoke(ctx, call, func(res any, err error) { ch <- out{res, err} })
	o := <-ch
	return o.res, o.err
}
