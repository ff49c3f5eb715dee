package server

import (
	"encoding/json"
	"fmt"
	"time"

	"typethrough/engine"
)

// ConfigEnv names the environment variable holding the JSON configuration
// passed down by the editor plugin.
const ConfigEnv = "TYPETHROUGH_CONFIG"

type Config struct {
	LogLevel               string `json:"log_level"` // trace, debug, info, warn, error
	IgnoreWhitespace       bool   `json:"ignore_whitespace"`
	MergeWhitespace        bool   `json:"merge_whitespace"`
	MaxSuffixLines         int    `json:"max_suffix_lines"`
	SuggestionTTL          int    `json:"suggestion_ttl"` // in milliseconds
	DebugImmediateShutdown bool   `json:"debug_immediate_shutdown"`
}

func DefaultConfig() Config {
	defaults := engine.DefaultConfig()
	return Config{
		LogLevel:         "info",
		IgnoreWhitespace: defaults.IgnoreWhitespace,
		MergeWhitespace:  defaults.MergeWhitespace,
		MaxSuffixLines:   defaults.MaxSuffixLines,
		SuggestionTTL:    int((5 * time.Minute).Milliseconds()),
	}
}

// ParseConfig decodes raw over DefaultConfig, so omitted fields keep their
// defaults. An empty document yields the defaults.
func ParseConfig(raw string) (Config, error) {
	config := DefaultConfig()
	if raw == "" {
		return config, nil
	}
	if err := json.Unmarshal([]byte(raw), &config); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if config.MaxSuffixLines < 0 {
		return Config{}, fmt.Errorf("invalid config: max_suffix_lines must not be negative, got %d", config.MaxSuffixLines)
	}
	if config.SuggestionTTL <= 0 {
		return Config{}, fmt.Errorf("invalid config: suggestion_ttl must be positive, got %d", config.SuggestionTTL)
	}
	return config, nil
}

// Engine returns the per-buffer engine configuration.
func (c Config) Engine() engine.Config {
	return engine.Config{
		IgnoreWhitespace: c.IgnoreWhitespace,
		MergeWhitespace:  c.MergeWhitespace,
		MaxSuffixLines:   c.MaxSuffixLines,
	}
}

func (c Config) suggestionTTL() time.Duration {
	return time.Duration(c.SuggestionTTL) * time.Millisecond
}
