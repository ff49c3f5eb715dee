// Package replay re-runs recorded editing sessions against the suggestion
// engine and reports where the ghost text differs from what was expected.
package replay

import (
	"errors"
	"fmt"

	"typethrough/engine"
)

// Session is one suggestion and the edits made while it was displayed.
type Session struct {
	Name string `yaml:"name" json:"name"`
	// Prefix is the text of the anchor line before the cursor when the
	// suggestion was requested.
	Prefix string `yaml:"prefix" json:"prefix"`
	// Reference is the completion returned for the request.
	Reference string `yaml:"reference" json:"reference"`
	// Suffix is the text that followed the cursor.
	Suffix           string `yaml:"suffix" json:"suffix"`
	IgnoreWhitespace *bool  `yaml:"ignore_whitespace" json:"ignore_whitespace"`
	MergeWhitespace  *bool  `yaml:"merge_whitespace" json:"merge_whitespace"`
	Steps            []Step `yaml:"steps" json:"steps"`
}

// Step is the editor state after one edit. Typed runs from the start of
// the anchor line to the cursor.
type Step struct {
	Typed       string  `yaml:"typed" json:"typed"`
	Want        *string `yaml:"want" json:"want"`
	WantInvalid bool    `yaml:"want_invalid" json:"want_invalid"`
}

var ErrInvalidSession = errors.New("invalid session")

// Validate checks that the session can be replayed.
func (s Session) Validate() error {
	if s.Reference == "" {
		return fmt.Errorf("session %q: empty reference: %w", s.Name, ErrInvalidSession)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("session %q: no steps: %w", s.Name, ErrInvalidSession)
	}
	for i, step := range s.Steps {
		if step.WantInvalid && step.Want != nil {
			return fmt.Errorf("session %q step %d: want and want_invalid are exclusive: %w", s.Name, i+1, ErrInvalidSession)
		}
	}
	return nil
}

func (s Session) engineConfig() engine.Config {
	config := engine.DefaultConfig()
	if s.IgnoreWhitespace != nil {
		config.IgnoreWhitespace = *s.IgnoreWhitespace
	}
	if s.MergeWhitespace != nil {
		config.MergeWhitespace = *s.MergeWhitespace
	}
	return config
}
