package engine

import (
	"fmt"
	"time"

	"typethrough/logger"
	"typethrough/text"
)

// String returns a human-readable name for the state
func (s state) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case statePending:
		return "Pending"
	case stateHasSuggestion:
		return "HasSuggestion"
	default:
		return "Unknown"
	}
}

// Transition represents a valid state transition in the engine's state machine
type Transition struct {
	From   state
	Event  EventType
	Action func(*Engine, Event)
}

// transitions defines all valid state transitions in the engine.
//
//	stateIdle
//	└─[Request]──► statePending
//	                 │
//	                 ├─[Ready]──► stateHasSuggestion
//	                 │              │
//	                 │              ├─[Accept]──► stateIdle
//	                 │              ├─[AcceptWord/AcceptLine, nothing left]──► stateIdle
//	                 │              └─[AcceptWord/AcceptLine]──► stateHasSuggestion
//	                 │
//	                 └─[Ready empty/Failed]──► stateIdle
//
// Request from any state replaces the current suggestion. Reject, and a
// TextChanged that leaves the suggestion invalid, return to stateIdle.
var transitions = []Transition{
	{stateIdle, EventRequest, (*Engine).doRequest},

	{statePending, EventRequest, (*Engine).doRequest},
	{statePending, EventReady, (*Engine).doReady},
	{statePending, EventFailed, (*Engine).doFail},
	{statePending, EventTextChanged, (*Engine).doTextChanged},
	{statePending, EventReject, (*Engine).doReject},

	{stateHasSuggestion, EventRequest, (*Engine).doRequest},
	{stateHasSuggestion, EventTextChanged, (*Engine).doTextChanged},
	{stateHasSuggestion, EventAccept, (*Engine).doAccept},
	{stateHasSuggestion, EventAcceptWord, (*Engine).doAcceptWord},
	{stateHasSuggestion, EventAcceptLine, (*Engine).doAcceptLine},
	{stateHasSuggestion, EventReject, (*Engine).doReject},
}

var transitionMap map[transitionKey]*Transition

type transitionKey struct {
	from  state
	event EventType
}

func init() {
	transitionMap = make(map[transitionKey]*Transition)
	for i := range transitions {
		t := &transitions[i]
		transitionMap[transitionKey{from: t.From, event: t.Event}] = t
	}
}

// findTransition returns nil if no valid transition exists.
func findTransition(from state, event EventType) *Transition {
	return transitionMap[transitionKey{from: from, event: event}]
}

// dispatch runs the action for event in the current state. It reports
// false when the event is not valid in that state. Callers hold e.mu.
func (e *Engine) dispatch(event Event) bool {
	t := findTransition(e.state, event.Type)
	if t == nil {
		logger.Debug("no handler: state=%s event=%s", e.state, event.Type)
		return false
	}
	if t.Action != nil {
		t.Action(e, event)
	}
	return true
}

func (e *Engine) doRequest(event Event) {
	data := event.Data.(*requestData)
	e.dispose("superseded by a new request")

	e.current = &suggestion{
		id:        data.id,
		anchor:    data.anchor,
		fragment:  text.NewFragment(data.linePrefix),
		requested: time.Now(),
	}
	e.state = statePending
	logger.Debug("requested suggestion %s at %d:%d", data.id, data.anchor.Row, data.anchor.Col)
}

func (e *Engine) doReady(event Event) {
	data := event.Data.(*readyData)
	if data.completion == "" {
		e.dispose("empty completion")
		data.err = fmt.Errorf("ready %s: %w", data.id, ErrNoSuggestion)
		return
	}

	s := e.current
	s.completion = data.completion
	s.fragment = text.NewFragment(s.fragment.String() + data.completion)
	s.hasResult = true
	e.state = stateHasSuggestion

	e.tracker.Shown(s.id, len(data.completion))
	logger.Debug("suggestion %s ready after %v", s.id, time.Since(s.requested))
}

func (e *Engine) doFail(event Event) {
	if cause, ok := event.Data.(error); ok && cause != nil {
		logger.Warn("suggestion %s failed: %v", e.current.id, cause)
	}
	e.dispose("request failed")
}

func (e *Engine) doTextChanged(event Event) {
	data := event.Data.(*textChangedData)
	if e.invalid(data.cursor, data.typed) {
		e.dispose("edit diverged from suggestion")
	}
}

func (e *Engine) doReject(event Event) {
	e.dispose("rejected")
}

func (e *Engine) doAccept(event Event) {
	data := event.Data.(*acceptData)
	ghost := e.render(data.typed, data.suffix)
	data.inserted = ghost.Text

	e.tracker.Accepted(ghost.ID, len(ghost.Text))
	e.current = nil
	e.state = stateIdle
}

func (e *Engine) doAcceptWord(event Event) {
	e.acceptPart(event.Data.(*acceptData), text.AcceptWord)
}

func (e *Engine) doAcceptLine(event Event) {
	e.acceptPart(event.Data.(*acceptData), text.AcceptLine)
}

func (e *Engine) acceptPart(data *acceptData, split func(*text.Fragment) (string, *text.Fragment)) {
	ghost := e.render(data.typed, data.suffix)
	part, rest := split(text.NewFragment(ghost.Text))
	data.inserted = part

	if rest.String() == "" {
		e.tracker.Accepted(ghost.ID, len(part))
		e.current = nil
		e.state = stateIdle
		return
	}
	e.tracker.PartiallyAccepted(ghost.ID, len(part))
}
