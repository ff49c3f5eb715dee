package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"typethrough/logger"
	"typethrough/metrics"
	"typethrough/text"
	"typethrough/types"

	"github.com/google/uuid"
)

var (
	// ErrNoSuggestion is returned when an operation needs a suggestion with
	// a result and there is none.
	ErrNoSuggestion = errors.New("no suggestion")
	// ErrStaleSuggestion is returned for results or failures reported for a
	// request that is no longer the pending one.
	ErrStaleSuggestion = errors.New("stale suggestion")
)

type state int

const (
	stateIdle state = iota
	statePending
	stateHasSuggestion
)

type Config struct {
	// IgnoreWhitespace and MergeWhitespace control how typed text is lined
	// up with the suggestion when rendering.
	IgnoreWhitespace bool
	MergeWhitespace  bool
	// MaxSuffixLines caps how much following text is considered when
	// removing overlap with the suggestion. 0 means no cap.
	MaxSuffixLines int
}

// DefaultConfig matches how inline suggestions are rendered in the editor.
func DefaultConfig() Config {
	return Config{
		IgnoreWhitespace: true,
		MergeWhitespace:  true,
		MaxSuffixLines:   20,
	}
}

// suggestion is one inline completion, from request to dismissal.
type suggestion struct {
	id         string
	anchor     types.Position
	completion string         // raw text returned for the request
	fragment   *text.Fragment // line prefix at the anchor, plus completion once ready
	hasResult  bool
	requested  time.Time
}

// Engine tracks at most one inline suggestion for a buffer. All methods are
// safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	state   state
	current *suggestion
	config  Config
	tracker *metrics.Tracker
	newID   func() string
}

// NewEngine returns an idle engine. A nil tracker gets a private one.
func NewEngine(config Config, tracker *metrics.Tracker) *Engine {
	if tracker == nil {
		tracker = metrics.NewTracker()
	}
	return &Engine{
		state:   stateIdle,
		config:  config,
		tracker: tracker,
		newID:   uuid.NewString,
	}
}

// State returns the name of the current state.
func (e *Engine) State() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.String()
}

// Current returns the ID of the suggestion being tracked, pending or not.
func (e *Engine) Current() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return "", false
	}
	return e.current.id, true
}

// Anchor returns the cursor position the current suggestion was requested
// at.
func (e *Engine) Anchor() (types.Position, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return types.Position{}, false
	}
	return e.current.anchor, true
}

// Request starts a new suggestion anchored at the cursor. linePrefix is the
// text of the cursor line before the cursor; it primes the suggestion so
// that typing can be checked before the result arrives. Any previous
// suggestion is disposed. Returns the new suggestion's ID.
func (e *Engine) Request(anchor types.Position, linePrefix string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	data := &requestData{anchor: anchor, linePrefix: linePrefix, id: e.newID()}
	e.dispatch(Event{Type: EventRequest, Data: data})
	return data.id
}

// Ready delivers the completion text for request id. An empty completion
// leaves nothing to show and drops the suggestion.
func (e *Engine) Ready(id, completion string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != statePending || e.current.id != id {
		return fmt.Errorf("ready %s: %w", id, ErrStaleSuggestion)
	}
	data := &readyData{id: id, completion: completion}
	e.dispatch(Event{Type: EventReady, Data: data})
	return data.err
}

// Fail reports that request id produced no completion.
func (e *Engine) Fail(id string, cause error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != statePending || e.current.id != id {
		return fmt.Errorf("fail %s: %w", id, ErrStaleSuggestion)
	}
	e.dispatch(Event{Type: EventFailed, Data: cause})
	return nil
}

// Invalid reports whether the suggestion no longer applies with the cursor
// at cursor and typed being the text from the start of the anchor line up
// to the cursor. Without a suggestion nothing is invalid.
func (e *Engine) Invalid(cursor types.Position, typed string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.invalid(cursor, typed)
}

func (e *Engine) invalid(cursor types.Position, typed string) bool {
	s := e.current
	if s == nil {
		return false
	}

	lineCount := s.fragment.LineCount(text.ViewOptions{})
	if cursor.Row < s.anchor.Row || cursor.Row > s.anchor.Row+lineCount {
		return true
	}
	if cursor.Col == s.anchor.Col {
		return false
	}
	if !s.hasResult {
		return false
	}
	return !text.NewFragment(typed).EndsWithStartOf(s.fragment, true)
}

// TextChanged drops the suggestion if the edit made it invalid. It reports
// whether a suggestion is still being tracked.
func (e *Engine) TextChanged(cursor types.Position, typed string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.dispatch(Event{Type: EventTextChanged, Data: &textChangedData{cursor: cursor, typed: typed}})
	return e.current != nil
}

// Render returns the ghost text to show given the text typed since the
// start of the anchor line and the text following the cursor. It reports
// false while no result is available.
func (e *Engine) Render(typed, suffix string) (types.Ghost, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateHasSuggestion {
		return types.Ghost{}, false
	}
	return e.render(typed, suffix), true
}

func (e *Engine) render(typed, suffix string) types.Ghost {
	defer logger.Trace("engine.render")()

	s := e.current
	reference := s.fragment
	if suffix = e.capSuffix(suffix); suffix != "" {
		reference = reference.Truncated(text.TruncateOptions{
			Suffix:           text.NewFragment(suffix),
			IgnoreWhitespace: true,
		})
	}

	insert := s.completion
	remaining := text.NewFragment(typed).RemainingCompletion(reference, text.CompletionOptions{
		IgnoreWhitespace: e.config.IgnoreWhitespace,
		MergeWhitespace:  e.config.MergeWhitespace,
	})
	if remaining != nil {
		insert = remaining.Text(text.ViewOptions{})
	}

	return types.Ghost{
		ID:    s.id,
		Text:  insert,
		Lines: strings.Split(insert, "\n"),
	}
}

func (e *Engine) capSuffix(suffix string) string {
	if e.config.MaxSuffixLines <= 0 || suffix == "" {
		return suffix
	}
	return strings.Join(text.NewFragment(suffix).Head(e.config.MaxSuffixLines, false), "\n")
}

// Accept returns the rest of the suggestion and stops tracking it.
func (e *Engine) Accept(typed, suffix string) (string, error) {
	return e.accept(EventAccept, typed, suffix)
}

// AcceptWord returns the next word of the suggestion. The suggestion stays
// active until nothing is left of it.
func (e *Engine) AcceptWord(typed, suffix string) (string, error) {
	return e.accept(EventAcceptWord, typed, suffix)
}

// AcceptLine returns the rest of the current line of the suggestion,
// including its line break. The suggestion stays active until nothing is
// left of it.
func (e *Engine) AcceptLine(typed, suffix string) (string, error) {
	return e.accept(EventAcceptLine, typed, suffix)
}

func (e *Engine) accept(eventType EventType, typed, suffix string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	data := &acceptData{typed: typed, suffix: suffix}
	if !e.dispatch(Event{Type: eventType, Data: data}) {
		return "", fmt.Errorf("%s: %w", eventType, ErrNoSuggestion)
	}
	return data.inserted, nil
}

// Reject disposes the current suggestion, if any.
func (e *Engine) Reject() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dispatch(Event{Type: EventReject})
}

// dispose drops the current suggestion, recording it as disposed when it
// was shown.
func (e *Engine) dispose(reason string) {
	if e.current != nil {
		logger.Debug("disposing suggestion %s: %s", e.current.id, reason)
		if e.current.hasResult {
			e.tracker.Disposed(e.current.id)
		}
	}
	e.current = nil
	e.state = stateIdle
}
