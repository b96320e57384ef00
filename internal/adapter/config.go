package adapter

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"genbridge/internal/model"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultFallbackDelay = time.Second
)

// Config encapsulates all tunables for Adapter construction.
type Config struct {
	Loader model.Loader
	// Workers bounds concurrent load and inference work. Defaults to NumCPU.
	Workers int
	// FallbackDelay is paused before answering while no model is loaded.
	// Zero means the default (1s); negative disables the pause.
	FallbackDelay time.Duration
	// ErrorFallbackDelay is paused before format and inference fallbacks.
	// Zero or negative disables the pause.
	ErrorFallbackDelay time.Duration
	Catalog            []string
	Selector           Selector
	Publisher          EventPublisher
	Logger             *zerolog.Logger
}

// New constructs an Adapter with default tunables.
func New(loader model.Loader) *Adapter {
	return NewWithConfig(Config{Loader: loader})
}

// NewWithConfig constructs an Adapter from Config.
func NewWithConfig(cfg Config) *Adapter {
	a := &Adapter{
		state:     StateUnloaded,
		loader:    cfg.Loader,
		publisher: noopPublisher{},
		log:       zerolog.Nop(),
		startTime: time.Now(),
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	a.pool = newPool(workers)
	notLoaded := cfg.FallbackDelay
	if notLoaded == 0 {
		notLoaded = defaultFallbackDelay
	}
	a.responder = NewResponder(cfg.Catalog, cfg.Selector, notLoaded, cfg.ErrorFallbackDelay)
	if cfg.Publisher != nil {
		a.publisher = cfg.Publisher
	}
	if cfg.Logger != nil {
		a.log = cfg.Logger.With().Str("component", "adapter").Logger()
	}
	return a
}

// SetEventPublisher sets the event publisher. Passing nil restores the
// no-op publisher.
func (a *Adapter) SetEventPublisher(p EventPublisher) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p == nil {
		a.publisher = noopPublisher{}
		return
	}
	a.publisher = p
}
