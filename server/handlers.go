package server

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"typethrough/engine"
	"typethrough/logger"
	"typethrough/metrics"
	"typethrough/types"

	gocache "github.com/patrickmn/go-cache"
)

// GhostReply is the render result sent back to the editor.
type GhostReply struct {
	ID    string   `msgpack:"id" json:"id"`
	Text  string   `msgpack:"text" json:"text"`
	Lines []string `msgpack:"lines" json:"lines"`
}

// Handlers serves suggestion operations for any number of buffers. Each
// buffer gets its own engine; engines untouched for the configured TTL are
// evicted and their suggestion counted as disposed.
type Handlers struct {
	config  Config
	tracker *metrics.Tracker
	mu      sync.Mutex // serializes get-or-create on engines
	engines *gocache.Cache
}

func NewHandlers(config Config, tracker *metrics.Tracker) *Handlers {
	return newHandlers(config, tracker, config.suggestionTTL())
}

// newHandlers runs the eviction janitor every cleanup.
func newHandlers(config Config, tracker *metrics.Tracker, cleanup time.Duration) *Handlers {
	if tracker == nil {
		tracker = metrics.NewTracker()
	}
	engines := gocache.New(config.suggestionTTL(), cleanup)
	engines.OnEvicted(func(key string, value any) {
		if eng, ok := value.(*engine.Engine); ok {
			logger.Debug("evicting engine for buffer %s", key)
			eng.Reject()
		}
	})
	return &Handlers{
		config:  config,
		tracker: tracker,
		engines: engines,
	}
}

func bufferKey(buf int) string {
	return strconv.Itoa(buf)
}

// engineFor returns the engine of buf, creating it when missing. Every
// access renews the TTL.
func (h *Handlers) engineFor(buf int) *engine.Engine {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := bufferKey(buf)
	eng, ok := h.lookup(key)
	if !ok {
		eng = engine.NewEngine(h.config.Engine(), h.tracker)
	}
	h.engines.SetDefault(key, eng)
	return eng
}

// existing returns the engine of buf without creating one.
func (h *Handlers) existing(buf int) (*engine.Engine, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := bufferKey(buf)
	eng, ok := h.lookup(key)
	if ok {
		h.engines.SetDefault(key, eng)
	}
	return eng, ok
}

// lookup reports expired engines as missing. They are evicted first, since
// go-cache only calls OnEvicted from Delete and DeleteExpired.
func (h *Handlers) lookup(key string) (*engine.Engine, bool) {
	h.engines.DeleteExpired()
	value, found := h.engines.Get(key)
	if !found {
		return nil, false
	}
	eng, ok := value.(*engine.Engine)
	if !ok {
		logger.Error("wrong type in engine cache for buffer %s", key)
		return nil, false
	}
	return eng, true
}

// Request starts a suggestion in buf at cursor and returns its ID.
func (h *Handlers) Request(buf int, cursor types.Position, linePrefix string) string {
	return h.engineFor(buf).Request(cursor, linePrefix)
}

// Ready delivers the completion for request id.
func (h *Handlers) Ready(buf int, id, completion string) error {
	eng, ok := h.existing(buf)
	if !ok {
		return engine.ErrStaleSuggestion
	}
	return eng.Ready(id, completion)
}

// Fail reports a failed request.
func (h *Handlers) Fail(buf int, id, message string) error {
	eng, ok := h.existing(buf)
	if !ok {
		return engine.ErrStaleSuggestion
	}
	return eng.Fail(id, errors.New(message))
}

// Anchor returns where the suggestion of buf was requested.
func (h *Handlers) Anchor(buf int) (types.Position, bool) {
	eng, ok := h.existing(buf)
	if !ok {
		return types.Position{}, false
	}
	return eng.Anchor()
}

// Render checks the suggestion of buf against the current edit and
// returns the ghost text to display, or nil when there is nothing to show.
// typed is the text from the start of the anchor line to cursor.
func (h *Handlers) Render(buf int, cursor types.Position, typed, suffix string) *GhostReply {
	defer logger.Trace("handlers.Render")()

	eng, ok := h.existing(buf)
	if !ok {
		return nil
	}
	if !eng.TextChanged(cursor, typed) {
		return nil
	}

	ghost, ok := eng.Render(typed, suffix)
	if !ok || ghost.Empty() {
		return nil
	}
	return &GhostReply{ID: ghost.ID, Text: ghost.Text, Lines: ghost.Lines}
}

// Accept returns the rest of the suggestion of buf.
func (h *Handlers) Accept(buf int, typed, suffix string) (string, error) {
	eng, ok := h.existing(buf)
	if !ok {
		return "", engine.ErrNoSuggestion
	}
	return eng.Accept(typed, suffix)
}

// AcceptWord returns the next word of the suggestion of buf.
func (h *Handlers) AcceptWord(buf int, typed, suffix string) (string, error) {
	eng, ok := h.existing(buf)
	if !ok {
		return "", engine.ErrNoSuggestion
	}
	return eng.AcceptWord(typed, suffix)
}

// AcceptLine returns the next line of the suggestion of buf.
func (h *Handlers) AcceptLine(buf int, typed, suffix string) (string, error) {
	eng, ok := h.existing(buf)
	if !ok {
		return "", engine.ErrNoSuggestion
	}
	return eng.AcceptLine(typed, suffix)
}

// Reject disposes the suggestion of buf.
func (h *Handlers) Reject(buf int) {
	if eng, ok := h.existing(buf); ok {
		eng.Reject()
	}
}

// Forget drops the engine of buf, disposing its suggestion.
func (h *Handlers) Forget(buf int) {
	h.engines.Delete(bufferKey(buf))
}

// Stats returns suggestion totals across all buffers.
func (h *Handlers) Stats() metrics.Stats {
	return h.tracker.Snapshot()
}
