package envinject

import (
	"sync"

	"github.com/agentstation/envinject/pkg/entry"
)

// EntryHook is called with a reconciled entry
type EntryHook func(e entry.Entry)

// hooks manages event callbacks for reconciled entries
type hooks struct {
	mu            sync.RWMutex
	onInjected    []EntryHook
	onSecret      []EntryHook
	onSynthesized []EntryHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnInjected registers a callback for entries injected with a value
func (h *hooks) OnInjected(fn EntryHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onInjected = append(h.onInjected, fn)
}

// OnSecret registers a callback for file entries matched by a secret
func (h *hooks) OnSecret(fn EntryHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSecret = append(h.onSecret, fn)
}

// OnSynthesized registers a callback for entries appended from the manifest
func (h *hooks) OnSynthesized(fn EntryHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSynthesized = append(h.onSynthesized, fn)
}

// trigger calls the matching hooks once per entry, in entry order
func (h *hooks) trigger(entries []entry.Entry) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, e := range entries {
		switch {
		case e.Synthesized:
			for _, hook := range h.onSynthesized {
				hook(e)
			}
		case e.IsInjected:
			for _, hook := range h.onInjected {
				hook(e)
			}
		case e.Secret:
			for _, hook := range h.onSecret {
				hook(e)
			}
		}
	}
}
