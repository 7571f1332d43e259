package output

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/polyglot/internal/ingest"
	"github.com/leapstack-labs/polyglot/pkg/core"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func sampleReport() *core.RunReport {
	return &core.RunReport{
		Run: core.RunContext{
			ID:    "0b7c2a8e-1111-2222-3333-444444444444",
			Stamp: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		},
		Locales: []*core.LocaleSummary{
			{Locale: "de-DE", PagesWritten: 2, NamespacesWritten: 1, Compiled: true, Keys: 4, Translated: 1},
			{Locale: "fr-FR", Err: errors.New("locale fr-FR: index.yaml: boom")},
		},
		Archived: []core.ArchiveEntry{{Locale: "es-ES", Source: "rosey/translations/es-ES", Destination: "rosey/archived/x/es-ES/translations"}},
		Duration: 1500 * time.Millisecond,
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
		{ModeText, false, ModeText},
		{ModeMarkdown, true, ModeMarkdown},
	}

	for _, tt := range tests {
		r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
		assert.Equal(t, tt.want, r.EffectiveMode(), "mode=%q tty=%v", tt.mode, tt.isTTY)
	}
}

func TestRenderRun_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeJSON)

	require.NoError(t, r.RenderRun(sampleReport(), "generate"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "0b7c2a8e-1111-2222-3333-444444444444", got["run_id"])
	assert.Equal(t, "generate", got["command"])
	assert.Equal(t, "partial", got["status"])
	assert.Equal(t, "2024-05-06T07-08-09.000Z", got["archive_stamp"])
	assert.EqualValues(t, 1500, got["duration_ms"])

	locales := got["locales"].([]any)
	require.Len(t, locales, 2)
	de := locales[0].(map[string]any)
	assert.Equal(t, "de-DE", de["locale"])
	assert.EqualValues(t, 2, de["pages_written"])
	assert.NotContains(t, de, "error")
	fr := locales[1].(map[string]any)
	assert.Equal(t, "locale fr-FR: index.yaml: boom", fr["error"])
}

func TestRenderRun_Markdown(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeAuto)

	require.NoError(t, r.RenderRun(sampleReport(), "generate"))

	s := out.String()
	assert.False(t, ansiPattern.MatchString(s))
	assert.Contains(t, s, "# polyglot generate")
	assert.Contains(t, s, "- **Status:** partial")
	assert.Contains(t, s, "| de-DE |")
	assert.Contains(t, s, "## Errors")
	assert.Contains(t, s, "boom")
	assert.Contains(t, s, "## Archived")
}

func TestRenderRun_Text(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, true, ModeText)

	report := sampleReport()
	report.Locales = report.Locales[:1]
	require.NoError(t, r.RenderRun(report, "compile"))

	s := ansiPattern.ReplaceAllString(out.String(), "")
	assert.Contains(t, s, "polyglot compile")
	assert.Contains(t, s, "de-DE")
	assert.Contains(t, s, "1/4")
	assert.Contains(t, s, "1 locale(s), 1 archived")
}

func TestRenderRun_Aborted(t *testing.T) {
	report := sampleReport()
	report.Locales = report.Locales[:1]
	report.Locales[0].Archived = []core.ArchiveEntry{{Locale: "de-DE", Source: "rosey/translations/de-DE/old.yaml", Destination: "rosey/archived/x/de-DE/translations/old.yaml"}}
	report.Aborted = errors.New("archive rosey/translations/fr-FR/stale.yaml: not a directory")

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeJSON)
		require.NoError(t, r.RenderRun(report, "generate"))

		var got map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "failed", got["status"])
		assert.Contains(t, got["error"], "not a directory")
	})

	t.Run("markdown", func(t *testing.T) {
		var out bytes.Buffer
		r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeMarkdown)
		require.NoError(t, r.RenderRun(report, "generate"))

		s := out.String()
		assert.Contains(t, s, "- **Status:** failed")
		assert.Contains(t, s, "run aborted: archive")
		assert.Contains(t, s, "`rosey/translations/de-DE/old.yaml`", "per-locale archive entries are listed")
	})
}

func TestRenderImport(t *testing.T) {
	summaries := []*ingest.Summary{
		{Locale: "de-DE", Received: 3, Filled: 2, Documents: 1},
		{Locale: "fr-FR", Skipped: true},
		{Locale: "ja", Err: errors.New("bad json")},
	}

	t.Run("markdown", func(t *testing.T) {
		var out bytes.Buffer
		r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeMarkdown)
		require.NoError(t, r.RenderImport(summaries))
		s := out.String()
		assert.Contains(t, s, "| fr-FR | 0 | 0 | 0 | skipped |")
		assert.Contains(t, s, "ja: bad json")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeJSON)
		require.NoError(t, r.RenderImport(summaries))

		var got importJSON
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		require.Len(t, got.Locales, 3)
		assert.Equal(t, 2, got.Locales[0].Filled)
		assert.True(t, got.Locales[1].Skipped)
		assert.Equal(t, "bad json", got.Locales[2].Error)
	})
}

// importJSON mirrors ImportOutput with value fields for decoding.
type importJSON struct {
	Locales []struct {
		Locale  string `json:"locale"`
		Filled  int    `json:"filled"`
		Skipped bool   `json:"skipped"`
		Error   string `json:"error"`
	} `json:"locales"`
}

func TestRenderHistory(t *testing.T) {
	records := []*core.RunRecord{{
		ID:        "abcd1234-0000",
		Command:   "generate",
		Status:    core.RunStatusCompleted,
		StartedAt: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		Duration:  2 * time.Second,
		Locales:   2,
	}}

	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeMarkdown)
	require.NoError(t, r.RenderHistory(records))
	assert.Contains(t, out.String(), "| abcd1234 | generate | completed |")

	out.Reset()
	require.NoError(t, r.RenderHistory(nil))
	assert.Equal(t, "No runs recorded yet.\n", out.String())

	out.Reset()
	r = NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeJSON)
	require.NoError(t, r.RenderHistory(nil))
	assert.Equal(t, "[]\n", out.String())
}

func TestWarningsGoToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRendererWithTTY(&out, &errOut, false, ModeAuto)

	r.RenderWarnings([]string{"no locales configured"})

	assert.Empty(t, out.String())
	assert.Equal(t, "! no locales configured\n", errOut.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Title\n", FormatHeader(2, "Title"))
	assert.Equal(t, "# Title\n", FormatHeader(0, "Title"))
	assert.Equal(t, "- **Key:** value", FormatKeyValue("Key", "value"))
	assert.Equal(t, "- a\n- b\n", FormatList([]string{"a", "b"}))
	assert.Equal(t, "`x`", FormatCode("x"))
}
