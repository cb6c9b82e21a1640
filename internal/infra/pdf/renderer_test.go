package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readBack(t *testing.T, data []byte) *ledongthuc.Reader {
	t.Helper()
	r, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return r
}

func TestRender_SinglePage(t *testing.T) {
	r, err := NewRenderer(Options{})
	require.NoError(t, err)

	out, err := r.Render("Daily Summary 2026-10-14", "- Deploy finished\n\n- Backups verified")

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	doc := readBack(t, out)
	assert.Equal(t, 1, doc.NumPage())
	text, err := doc.Page(1).GetPlainText(nil)
	require.NoError(t, err)
	assert.Contains(t, text, "Deploy")
}

func TestRender_PageBreaks(t *testing.T) {
	r, err := NewRenderer(Options{})
	require.NoError(t, err)

	var body strings.Builder
	for i := 0; i < 150; i++ {
		fmt.Fprintf(&body, "- line %d of a long history export\n", i)
	}

	out, err := r.Render("History", body.String())

	require.NoError(t, err)
	assert.GreaterOrEqual(t, readBack(t, out).NumPage(), 3)
}

func TestRender_WrapsLongLines(t *testing.T) {
	r, err := NewRenderer(Options{})
	require.NoError(t, err)

	short, err := r.Render("T", "word")
	require.NoError(t, err)
	long, err := r.Render("T", strings.Repeat("word ", 2000))
	require.NoError(t, err)

	assert.Greater(t, readBack(t, long).NumPage(), readBack(t, short).NumPage())
}

func TestRender_Latin1WithoutUnicodeFont(t *testing.T) {
	r, err := NewRenderer(Options{})
	require.NoError(t, err)

	_, err = r.Render("Résumé", "- Café revenue up 5 €")

	assert.NoError(t, err)
	assert.False(t, r.UnicodeFont())
}

func TestNewRenderer_MissingFont(t *testing.T) {
	_, err := NewRenderer(Options{FontPath: "/nonexistent/NotoSansSC.ttf"})

	assert.ErrorContains(t, err, "read pdf font")
}
