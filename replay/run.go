package replay

import (
	"fmt"
	"strings"

	"typethrough/engine"
	"typethrough/logger"
	"typethrough/metrics"
	"typethrough/text"
	"typethrough/types"
)

// Result is the outcome of replaying one step.
type Result struct {
	Session string
	Step    int // 1-indexed
	Typed   string
	Want    string
	Got     string
	// Invalid is whether the engine considered the suggestion invalid.
	Invalid     bool
	WantInvalid bool
	Passed      bool
}

// Diff explains a mismatched ghost text. It is empty for passing steps and
// for validity mismatches.
func (r Result) Diff() string {
	if r.Passed || r.Invalid || r.WantInvalid {
		return ""
	}
	return text.FormatDiff(text.DiffSpans(r.Want, r.Got))
}

func (r Result) String() string {
	status := "ok"
	if !r.Passed {
		status = "FAIL"
	}

	switch {
	case r.WantInvalid:
		return fmt.Sprintf("%s %s#%d: want invalid, invalid=%t", status, r.Session, r.Step, r.Invalid)
	case r.Invalid:
		return fmt.Sprintf("%s %s#%d: unexpectedly invalid after %q", status, r.Session, r.Step, r.Typed)
	default:
		return fmt.Sprintf("%s %s#%d: want %q, got %q", status, r.Session, r.Step, r.Want, r.Got)
	}
}

// Run replays every session and returns one result per step. All sessions
// share tracker, which may be nil.
func Run(sessions []Session, tracker *metrics.Tracker) []Result {
	defer logger.Trace("replay.Run")()

	if tracker == nil {
		tracker = metrics.NewTracker()
	}

	var results []Result
	for _, s := range sessions {
		results = append(results, runSession(s, tracker)...)
	}
	return results
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}

func runSession(s Session, tracker *metrics.Tracker) []Result {
	eng := engine.NewEngine(s.engineConfig(), tracker)
	anchor := types.Position{Row: 1, Col: len(s.Prefix)}

	id := eng.Request(anchor, s.Prefix)
	if err := eng.Ready(id, s.Reference); err != nil {
		// Validate rejects empty references, so this only happens for
		// sessions that bypassed Decode.
		logger.Warn("replay %q: %v", s.Name, err)
	}

	results := make([]Result, 0, len(s.Steps))
	for i, step := range s.Steps {
		result := Result{
			Session:     s.Name,
			Step:        i + 1,
			Typed:       step.Typed,
			WantInvalid: step.WantInvalid,
			Invalid:     eng.Invalid(cursorAfter(anchor, step.Typed), step.Typed),
		}
		if step.Want != nil {
			result.Want = *step.Want
		}

		if !result.Invalid {
			if ghost, ok := eng.Render(step.Typed, s.Suffix); ok {
				result.Got = ghost.Text
			}
		}

		switch {
		case step.WantInvalid:
			result.Passed = result.Invalid
		case result.Invalid:
			result.Passed = false
		case step.Want == nil:
			result.Passed = true
		default:
			result.Passed = result.Got == result.Want
		}

		if !result.Passed {
			logger.Debug("replay mismatch: %s", result)
		}
		results = append(results, result)
	}

	eng.Reject()
	return results
}

// cursorAfter is the cursor position at the end of typed, which starts at
// the beginning of the anchor line.
func cursorAfter(anchor types.Position, typed string) types.Position {
	newlines := strings.Count(typed, "\n")
	col := len(typed)
	if newlines > 0 {
		col = len(typed) - strings.LastIndex(typed, "\n") - 1
	}
	return types.Position{Row: anchor.Row + newlines, Col: col}
}
