package engine

import "sync/atomic"

// Holder publishes a Ready engine to concurrent readers. A rebuild is
// all-or-nothing: the previous engine keeps serving until Swap makes the new
// one visible in a single atomic store.
type Holder struct {
	current atomic.Pointer[Engine]
}

// NewHolder creates a holder serving eng.
func NewHolder(eng *Engine) *Holder {
	h := &Holder{}
	h.current.Store(eng)
	return h
}

// Engine returns the currently published engine.
func (h *Holder) Engine() *Engine { return h.current.Load() }

// Swap atomically replaces the published engine.
func (h *Holder) Swap(eng *Engine) { h.current.Store(eng) }
