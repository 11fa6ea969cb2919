// Package cooldown provides a keyed in-memory throttle for import triggers.
// It is best-effort only: state is lost on restart and offers no mutual
// exclusion across processes. The permanent processed-email uniqueness
// constraint is the actual duplicate-prevention mechanism.
package cooldown

import (
	"sync"
	"time"
)

const gcHorizon = 5 * time.Minute

type entry struct {
	started time.Time
	active  bool
}

// Gate admits at most one import per key within a fixed window.
type Gate struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	entries map[string]entry
}

// New creates a gate with the given cooldown window.
func New(window time.Duration) *Gate {
	return NewWithClock(window, time.Now)
}

// NewWithClock creates a gate with an injectable clock for tests.
func NewWithClock(window time.Duration, now func() time.Time) *Gate {
	return &Gate{
		window:  window,
		now:     now,
		entries: make(map[string]entry),
	}
}

// TryAcquire attempts to start an import for key. It fails while an import is
// in flight or while the cooldown window since the last start has not passed,
// returning the remaining wait. Stale entries are garbage-collected here.
func (g *Gate) TryAcquire(key string) (time.Duration, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if e, ok := g.entries[key]; ok {
		elapsed := now.Sub(e.started)
		if e.active || elapsed < g.window {
			remaining := g.window - elapsed
			if remaining <= 0 {
				// Still in flight past the window; suggest a short retry.
				remaining = time.Second
			}
			return remaining, false
		}
	}

	g.entries[key] = entry{started: now, active: true}

	// Opportunistic cleanup of old entries
	for k, e := range g.entries {
		if !e.active && now.Sub(e.started) > gcHorizon {
			delete(g.entries, k)
		}
	}

	return 0, true
}

// Release marks the import for key as finished. The start timestamp is kept
// so the cooldown window still applies to the next trigger.
func (g *Gate) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.entries[key]; ok {
		e.active = false
		g.entries[key] = e
	}
}

// Status reports whether an import is in flight for key and how long until
// the gate opens again.
func (g *Gate) Status(key string) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[key]
	if !ok {
		return false, 0
	}
	remaining := g.window - g.now().Sub(e.started)
	if remaining < 0 {
		remaining = 0
	}
	if !e.active && remaining == 0 {
		return false, 0
	}
	return e.active, remaining
}
