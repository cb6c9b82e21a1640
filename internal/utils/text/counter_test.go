package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "ascii", text: "hello", want: 5},
		{name: "chinese", text: "你好世界", want: 4},
		{name: "mixed", text: "hello世界", want: 7},
		{name: "emoji", text: "Hello👋", want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountRunes(tt.text))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{name: "shorter than max", text: "abc", max: 10, want: "abc"},
		{name: "exact", text: "abc", max: 3, want: "abc"},
		{name: "ascii cut", text: "abcdef", max: 4, want: "abcd"},
		{name: "chinese cut", text: "你好世界你好", max: 3, want: "你好世"},
		{name: "byte length above max but runes fit", text: "你好", max: 4, want: "你好"},
		{name: "zero", text: "abc", max: 0, want: ""},
		{name: "negative", text: "abc", max: -1, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.text, tt.max)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, CountRunes(got), max(tt.max, 0))
		})
	}
}

func TestTruncateWithSuffix(t *testing.T) {
	long := strings.Repeat("界", 5000)

	got := TruncateWithSuffix(long, 4096, "...")

	assert.Equal(t, 4096, CountRunes(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "short", TruncateWithSuffix("short", 4096, "..."))
}
