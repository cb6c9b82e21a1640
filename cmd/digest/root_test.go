package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-summary/internal/domain/entity"
)

// offlineEnv points every command at the noop backend and a fresh history
// database, with no real channel credentials.
func offlineEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LLM_PROVIDER", "noop")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("HISTORY_ENABLED", "true")
	t.Setenv("HISTORY_DB_PATH", filepath.Join(dir, "history.db"))
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REPORT_TIMEZONE", "UTC")
	t.Setenv("REPORT_SUBJECT_PREFIX", "[Daily Report]")
	t.Setenv("REPORT_PROFILE", "")
	t.Setenv("PDF_FONT_PATH", "")
	t.Setenv("LOG_LEVEL", "error")
	for _, key := range []string{"SENDGRID_API_KEY", "EMAIL_FROM", "EMAIL_TO", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID"} {
		t.Setenv(key, "")
	}
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

const notes = "Finished the billing migration and paired on the search latency issue with the platform team."

func TestSummarize_Text(t *testing.T) {
	offlineEnv(t)

	out, err := execute(t, "", "summarize", "--text", notes)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "- Finished the billing migration"))
}

func TestSummarize_JSONFromFile(t *testing.T) {
	dir := offlineEnv(t)
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Today\n\n"+notes), 0o600))

	out, err := execute(t, "", "summarize", "--file", path, "--output", "json")
	require.NoError(t, err)

	var summary entity.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, entity.LanguageEnglish, summary.Language)
	assert.Equal(t, 1, summary.Meta.ChunkCount)
	assert.NotEmpty(t, summary.Text)
}

func TestSummarize_EmptyInput(t *testing.T) {
	offlineEnv(t)

	out, err := execute(t, "", "summarize")
	require.NoError(t, err)
	assert.Equal(t, entity.EmptyInputSummary+"\n", out)
}

func TestSummarize_InvalidFlags(t *testing.T) {
	offlineEnv(t)

	_, err := execute(t, "", "summarize", "--text", notes, "--lang", "fr")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = execute(t, "", "summarize", "--text", notes, "--output", "xml")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestSend_DryRunThenHistoryAndExport(t *testing.T) {
	dir := offlineEnv(t)
	pdfPath := filepath.Join(dir, "report.pdf")

	out, err := execute(t, "", "send", "--text", notes, "--email", "--telegram", "--dry-run", "--yes", "--pdf", pdfPath)
	require.NoError(t, err)
	assert.Contains(t, out, "[Daily Report] Daily Summary (")
	assert.Contains(t, out, "Email sent: true")
	assert.Contains(t, out, "Telegram sent: true")
	assert.Contains(t, out, "Saved to history as #1")
	assert.FileExists(t, pdfPath)

	out, err = execute(t, "", "history", "--output", "json")
	require.NoError(t, err)
	var records []HistoryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].ID)
	assert.True(t, records[0].SentEmail)
	assert.True(t, records[0].SentTelegram)
	assert.Equal(t, "en", records[0].Language)

	out, err = execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "[Daily Report] Daily Summary")

	exported := filepath.Join(dir, "export.pdf")
	out, err = execute(t, "", "export-pdf", "--id", "1", "--out", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "PDF written to")
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestSend_Declined(t *testing.T) {
	offlineEnv(t)

	out, err := execute(t, "no\n", "send", "--text", notes, "--email", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Send to email? [y/N]: ")
	assert.Contains(t, out, "Cancelled, nothing was sent.")

	out, err = execute(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No reports sent yet.")
}

func TestSend_ConfirmedOnStdin(t *testing.T) {
	offlineEnv(t)

	out, err := execute(t, "y\n", "send", "--text", notes, "--telegram", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Send to telegram? [y/N]: ")
	assert.Contains(t, out, "Telegram sent: true")
	assert.Contains(t, out, "Email sent: false")
}

func TestSend_NoChannel(t *testing.T) {
	offlineEnv(t)

	_, err := execute(t, "", "send", "--text", notes, "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no channel selected")
}

func TestSend_ProfileSuppliesInputsAndChannels(t *testing.T) {
	dir := offlineEnv(t)
	input := filepath.Join(dir, "daily.txt")
	require.NoError(t, os.WriteFile(input, []byte(notes), 0o600))
	profile := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(profile, []byte(
		"subject_prefix: \"[Ops Daily]\"\nchannels: {email: false, telegram: true}\ninputs:\n  - "+input+"\n"), 0o600))

	out, err := execute(t, "", "send", "--profile", profile, "--dry-run", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "[Ops Daily] Daily Summary (")
	assert.Contains(t, out, "- Finished the billing migration")
	assert.Contains(t, out, "Email sent: false")
	assert.Contains(t, out, "Telegram sent: true")
}

func TestHistory_InvalidLimit(t *testing.T) {
	offlineEnv(t)

	_, err := execute(t, "", "history", "--limit", "501")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestExportPDF_NotFound(t *testing.T) {
	dir := offlineEnv(t)

	_, err := execute(t, "", "export-pdf", "--id", "42", "--out", filepath.Join(dir, "x.pdf"))
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestExportPDF_RequiresFlags(t *testing.T) {
	offlineEnv(t)

	_, err := execute(t, "", "export-pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestModels(t *testing.T) {
	offlineEnv(t)

	out, err := execute(t, "", "models")
	require.NoError(t, err)
	assert.Contains(t, out, "Provider: noop")
	assert.Contains(t, out, "* noop")
	assert.Contains(t, out, "Selected: noop")
}
