package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncated(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		opts    TruncateOptions
		want    string
	}{
		{
			name:    "range across lines",
			subject: "hello\nworld\ntest",
			opts:    TruncateOptions{Range: SpanRange(0, 0, 1, 2)},
			want:    "hello\nwo",
		},
		{
			name:    "range at character boundary",
			subject: "abcdef",
			opts:    TruncateOptions{Range: SpanRange(0, 0, 0, 3)},
			want:    "abc",
		},
		{
			name:    "range beyond bounds",
			subject: "short text",
			opts:    TruncateOptions{Range: LineRange(0, 10)},
			want:    "short text",
		},
		{
			name:    "overlap with suffix removed",
			subject: "function test() {\n  const x = 1;",
			opts: TruncateOptions{
				Suffix:           NewFragment("const x = 1;\n  return x;\n}"),
				IgnoreWhitespace: true,
			},
			want: "function test() {\n  ",
		},
		{
			name:    "no overlap",
			subject: "function test() {",
			opts: TruncateOptions{
				Suffix:           NewFragment("return 42;\n}"),
				IgnoreWhitespace: true,
			},
			want: "function test() {",
		},
		{
			name:    "range then suffix",
			subject: "function test() {\n  const x = 1;",
			opts: TruncateOptions{
				Range:            SpanRange(0, 0, 0, 10),
				Suffix:           NewFragment("const x = 1;\n  return x;\n}"),
				IgnoreWhitespace: true,
			},
			want: "function t",
		},
		{
			name:    "indented suffix ignoring whitespace",
			subject: "function test() {\n  const x = 1;",
			opts: TruncateOptions{
				Suffix:           NewFragment("    const x = 1;\n  return x;\n}"),
				IgnoreWhitespace: true,
			},
			want: "function test() {\n  ",
		},
		{
			name:    "indented suffix with exact whitespace",
			subject: "function test() {\n  const x = 1;",
			opts: TruncateOptions{
				Suffix:           NewFragment("    const x = 1;\n  return x;\n}"),
				IgnoreWhitespace: false,
			},
			want: "function test() {\n  const x = 1;",
		},
		{
			name:    "match from start only",
			subject: "function test() {\n  const x = getResult();",
			opts: TruncateOptions{
				Suffix:           NewFragment("Result();\n  return x;\n}"),
				IgnoreWhitespace: true,
				MatchFromStart:   true,
			},
			want: "function test() {\n  const x = getResult();",
		},
		{
			name:    "match anywhere",
			subject: "function test() {\n  const x = getResult();",
			opts: TruncateOptions{
				Suffix:           NewFragment("Result();\n  return x;\n}"),
				IgnoreWhitespace: true,
			},
			want: "function test() {\n  const x = get",
		},
		{
			name:    "blank suffix",
			subject: "return x",
			opts: TruncateOptions{
				Suffix:           NewFragment("\n  \n"),
				IgnoreWhitespace: true,
			},
			want: "return x",
		},
		{
			name:    "latest overlap wins across lines",
			subject: "x;\nfoo x;",
			opts: TruncateOptions{
				Suffix:           NewFragment("x;"),
				IgnoreWhitespace: true,
			},
			want: "x;\nfoo ",
		},
		{
			name:    "latest overlap wins over earlier exact line",
			subject: "return x;\nx;\n  y = x;",
			opts: TruncateOptions{
				Suffix:           NewFragment("x;\n}"),
				IgnoreWhitespace: false,
			},
			want: "return x;\nx;\n  y = ",
		},
		{
			name:    "remaining completion against following code",
			subject: "return this;\n  }",
			opts: TruncateOptions{
				Suffix:           NewFragment("this;\n  }"),
				IgnoreWhitespace: true,
			},
			want: "return ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewFragment(tt.subject).Truncated(tt.opts)
			assert.Equal(t, tt.want, got.Text(ViewOptions{}), "truncated text")
		})
	}
}

func TestTruncated_NoOptionsReturnsCopy(t *testing.T) {
	fragment := NewFragment("original text")

	got := fragment.Truncated(TruncateOptions{})

	assert.Equal(t, "original text", got.Text(ViewOptions{}), "same text")
	assert.NotSame(t, fragment, got, "new instance")
}

func TestTruncated_DefaultOptions(t *testing.T) {
	opts := DefaultTruncateOptions()

	assert.True(t, opts.IgnoreWhitespace, "ignores whitespace by default")
	assert.False(t, opts.MatchFromStart, "matches anywhere by default")
	assert.Nil(t, opts.Suffix, "no suffix")
	assert.Nil(t, opts.Range, "no range")
}

func TestTruncated_SecondPassIsStable(t *testing.T) {
	suffix := NewFragment("const x = 1;\n  return x;\n}")
	opts := TruncateOptions{Suffix: suffix, IgnoreWhitespace: true}

	once := NewFragment("function test() {\n  const x = 1;").Truncated(opts)
	twice := once.Truncated(opts)

	assert.Equal(t, once.Text(ViewOptions{}), twice.Text(ViewOptions{}), "nothing left to remove")
}
