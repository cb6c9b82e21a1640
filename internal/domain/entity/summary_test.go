package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptySummary(t *testing.T) {
	s := EmptySummary()

	assert.Equal(t, "No content provided.", s.Text)
	assert.Equal(t, LanguageEnglish, s.Language)
	assert.Equal(t, 0, s.Meta.ChunkCount)
	assert.True(t, s.IsEmptyInput())

	s.Meta.ChunkCount = 1
	assert.False(t, s.IsEmptyInput())
}

func TestMetaCoding(t *testing.T) {
	encoded, err := EncodeMeta(SummaryMeta{ChunkCount: 3, Model: "models/gemini-2.5-flash"})
	require.NoError(t, err)
	assert.Equal(t, `{"chunks":3,"model":"models/gemini-2.5-flash"}`, encoded)

	tests := []struct {
		name     string
		stored   string
		expected SummaryMeta
	}{
		{name: "empty column", stored: "", expected: SummaryMeta{}},
		{name: "empty object", stored: "{}", expected: SummaryMeta{}},
		{name: "spaced json", stored: `{"chunks": 0}`, expected: SummaryMeta{}},
		{name: "full", stored: `{"chunks": 4, "model": "models/gemini-pro"}`, expected: SummaryMeta{ChunkCount: 4, Model: "models/gemini-pro"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeMeta(tt.stored)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err = DecodeMeta("not json")
	assert.Error(t, err)
}
