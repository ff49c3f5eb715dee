package metrics

import (
	"sync"
	"time"

	"typethrough/logger"
)

const (
	EventShown             = "suggestion_shown"
	EventAccepted          = "suggestion_accepted"
	EventPartiallyAccepted = "suggestion_partially_accepted"
	EventDisposed          = "suggestion_disposed"
)

// Stats is a point-in-time summary of suggestion outcomes.
type Stats struct {
	Shown             int `msgpack:"shown" json:"shown"`
	Accepted          int `msgpack:"accepted" json:"accepted"`
	PartiallyAccepted int `msgpack:"partially_accepted" json:"partially_accepted"`
	Disposed          int `msgpack:"disposed" json:"disposed"`
	AcceptedChars     int `msgpack:"accepted_chars" json:"accepted_chars"`
}

type suggestionMetrics struct {
	shownAt time.Time
	chars   int
}

// Tracker records the lifecycle of suggestions. A suggestion is closed by
// either Accepted or Disposed; events for unknown or closed IDs are ignored.
type Tracker struct {
	mu    sync.Mutex
	live  map[string]*suggestionMetrics
	stats Stats
	now   func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{
		live: make(map[string]*suggestionMetrics),
		now:  time.Now,
	}
}

// Shown opens a suggestion with the number of characters it offers.
func (t *Tracker) Shown(id string, chars int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.live[id]; ok {
		return
	}
	t.live[id] = &suggestionMetrics{shownAt: t.now(), chars: chars}
	t.stats.Shown++
	logger.Debug("metrics: %s id=%s chars=%d", EventShown, id, chars)
}

// PartiallyAccepted records chars taken from a suggestion that stays open.
func (t *Tracker) PartiallyAccepted(id string, chars int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.live[id]; !ok {
		return
	}
	t.stats.PartiallyAccepted++
	t.stats.AcceptedChars += chars
	logger.Debug("metrics: %s id=%s chars=%d", EventPartiallyAccepted, id, chars)
}

// Accepted closes a suggestion whose remaining chars were inserted.
func (t *Tracker) Accepted(id string, chars int) {
	t.close(id, EventAccepted, func(s *Stats) {
		s.Accepted++
		s.AcceptedChars += chars
	})
}

// Disposed closes a suggestion that was dismissed or went stale.
func (t *Tracker) Disposed(id string) {
	t.close(id, EventDisposed, func(s *Stats) {
		s.Disposed++
	})
}

func (t *Tracker) close(id, event string, update func(*Stats)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, ok := t.live[id]
	if !ok {
		return
	}
	delete(t.live, id)
	update(&t.stats)

	lifespan := t.now().Sub(m.shownAt).Milliseconds()
	logger.Debug("metrics: %s id=%s lifespan=%dms", event, id, lifespan)
}

// Snapshot returns the current totals.
func (t *Tracker) Snapshot() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}
