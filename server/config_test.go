package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Empty(t *testing.T) {
	config, err := ParseConfig("")

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config, "defaults")
	assert.True(t, config.IgnoreWhitespace, "ignores whitespace by default")
	assert.True(t, config.MergeWhitespace, "merges whitespace by default")
	assert.Equal(t, 5*time.Minute, config.suggestionTTL(), "ttl")
}

func TestParseConfig_OverridesKeepDefaults(t *testing.T) {
	config, err := ParseConfig(`{"log_level": "debug", "merge_whitespace": false, "suggestion_ttl": 1000}`)

	require.NoError(t, err)
	assert.Equal(t, "debug", config.LogLevel)
	assert.False(t, config.MergeWhitespace, "overridden")
	assert.True(t, config.IgnoreWhitespace, "kept")
	assert.Equal(t, DefaultConfig().MaxSuffixLines, config.MaxSuffixLines, "kept")
	assert.Equal(t, time.Second, config.suggestionTTL())
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{"},
		{"wrong type", `{"max_suffix_lines": "ten"}`},
		{"negative suffix lines", `{"max_suffix_lines": -1}`},
		{"zero ttl", `{"suggestion_ttl": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestConfig_Engine(t *testing.T) {
	config := Config{IgnoreWhitespace: true, MergeWhitespace: false, MaxSuffixLines: 3}

	got := config.Engine()

	assert.True(t, got.IgnoreWhitespace)
	assert.False(t, got.MergeWhitespace)
	assert.Equal(t, 3, got.MaxSuffixLines)
}
