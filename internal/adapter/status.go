package adapter

import (
	"time"

	"genbridge/internal/model"
	"genbridge/internal/schema"
)

// Status is a point-in-time view of the adapter.
type Status struct {
	State         State       `json:"state"`
	Reloading     bool        `json:"reloading"`
	Model         *model.Info `json:"model,omitempty"`
	LoadedAt      time.Time   `json:"loaded_at,omitempty"`
	LastError     string      `json:"last_error,omitempty"`
	Loads         uint64      `json:"loads"`
	LoadFailures  uint64      `json:"load_failures"`
	Generations   uint64      `json:"generations"`
	Fallbacks     uint64      `json:"fallbacks"`
	Inflight      int64       `json:"inflight"`
	UptimeSeconds int64       `json:"uptime_seconds"`
}

// Details describes the loaded model and its schema.
type Details struct {
	Info   model.Info        `json:"info"`
	Schema schema.Descriptor `json:"schema"`
}

// Status builds a status snapshot.
func (a *Adapter) Status() Status {
	a.mu.RLock()
	s := Status{
		State:     a.state,
		Reloading: a.reloading,
		LastError: a.lastErr,
	}
	if a.cur != nil {
		info := a.cur.m.Info()
		s.Model = &info
		s.LoadedAt = a.cur.loadedAt
	}
	a.mu.RUnlock()
	s.Loads = a.loads.Load()
	s.LoadFailures = a.loadFailures.Load()
	s.Generations = a.generations.Load()
	s.Fallbacks = a.fallbacks.Load()
	s.Inflight = a.inflight.Load()
	s.UptimeSeconds = int64(time.Since(a.startTime).Seconds())
	return s
}

// ModelInfo returns details about the loaded model. ok is false when no model
// is loaded.
func (a *Adapter) ModelInfo() (d Details, ok bool) {
	a.mu.RLock()
	h := a.cur
	a.mu.RUnlock()
	if h == nil {
		return Details{}, false
	}
	return Details{Info: h.m.Info(), Schema: schema.Describe(h.m)}, true
}
