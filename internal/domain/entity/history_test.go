package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryRecord_Validate(t *testing.T) {
	valid := func() *HistoryRecord {
		return &HistoryRecord{
			Language:  LanguageEnglish,
			Title:     "[Daily Report] Daily Summary (2026-01-05)",
			Summary:   "- Revenue grew 12% year over year.",
			SentEmail: true,
			Meta:      SummaryMeta{ChunkCount: 1, Model: "models/gemini-1.5-flash"},
		}
	}

	tests := []struct {
		name      string
		mutate    func(r *HistoryRecord)
		wantField string
	}{
		{name: "valid", mutate: func(r *HistoryRecord) {}},
		{name: "telegram only", mutate: func(r *HistoryRecord) { r.SentEmail, r.SentTelegram = false, true }},
		{name: "missing title", mutate: func(r *HistoryRecord) { r.Title = "  " }, wantField: "title"},
		{name: "missing summary", mutate: func(r *HistoryRecord) { r.Summary = "" }, wantField: "summary"},
		{name: "auto language", mutate: func(r *HistoryRecord) { r.Language = LanguageAuto }, wantField: "language"},
		{name: "no channel", mutate: func(r *HistoryRecord) { r.SentEmail = false }, wantField: "channels"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(r)
			err := r.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			if assert.ErrorAs(t, err, &validationErr) {
				assert.Equal(t, tt.wantField, validationErr.Field)
			}
		})
	}
}

func TestEmptySummary_HistoryFile(t *testing.T) {
	s := EmptySummary()

	assert.Equal(t, "No content provided.", s.Text)
	assert.Equal(t, LanguageEnglish, s.Language)
	assert.Equal(t, 0, s.Meta.ChunkCount)
	assert.True(t, s.IsEmptyInput())

	s2 := &Summary{Text: "- a", Language: LanguageEnglish, Meta: SummaryMeta{ChunkCount: 1}}
	assert.False(t, s2.IsEmptyInput())
}
