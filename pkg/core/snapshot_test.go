package core_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/polyglot/pkg/core"
)

func TestNewSnapshot(t *testing.T) {
	snap := core.NewSnapshot([]*core.KeyEntry{
		{ID: "b", Original: "B", Pages: []string{"z.html", "a.html"}},
		{ID: "a", Original: "A", Pages: []string{"index.html"}},
	}, []string{"z.html", "index.html", "a.html", "index.html"})

	assert.Equal(t, []string{"a", "b"}, snap.Keys())
	assert.Equal(t, []string{"a.html", "index.html", "z.html"}, snap.Pages())
	assert.True(t, snap.HasPage("z.html"))
	assert.False(t, snap.HasPage("missing.html"))

	b, ok := snap.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, []string{"a.html", "z.html"}, b.Pages)
	assert.True(t, b.OnPage("z.html"))
	assert.False(t, b.OnPage("index.html"))
}

func TestNamespaceOf(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"common:nav:home", "common"},
		{"rcc-markdown:intro", "rcc-markdown"},
		{"no-namespace", ""},
		{":leading", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, core.NamespaceOf(tt.key))
		})
	}
}

func TestProjectConfig_MarkdownKeyFor(t *testing.T) {
	cfg := &core.ProjectConfig{
		MarkdownKeys: []core.MarkdownKey{{ID: "rcc-markdown", EnabledMarkdownOptions: core.AllMarkdownOptions()}},
	}

	mk, ok := cfg.MarkdownKeyFor("rcc-markdown:hero")
	require.True(t, ok)
	assert.True(t, mk.EnabledMarkdownOptions.Bold)

	_, ok = cfg.MarkdownKeyFor("rcc-markdown-extra:hero")
	assert.False(t, ok)
	_, ok = cfg.MarkdownKeyFor("rcc-markdown")
	assert.False(t, ok)
}

func TestRunContext_ArchiveStamp(t *testing.T) {
	rc := core.RunContext{Stamp: time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.FixedZone("x", 3600))}
	assert.Equal(t, "2024-03-09T13-05-07.123Z", rc.ArchiveStamp())
}

func TestStatusOf(t *testing.T) {
	ok := &core.LocaleSummary{Locale: "fr"}
	bad := &core.LocaleSummary{Locale: "de", Err: assert.AnError}

	assert.Equal(t, core.RunStatusCompleted, core.StatusOf(&core.RunReport{Locales: []*core.LocaleSummary{ok}}))
	assert.Equal(t, core.RunStatusPartial, core.StatusOf(&core.RunReport{Locales: []*core.LocaleSummary{ok, bad}}))
	assert.Equal(t, core.RunStatusFailed, core.StatusOf(&core.RunReport{Locales: []*core.LocaleSummary{bad}}))
	assert.Equal(t, core.RunStatusFailed, core.StatusOf(&core.RunReport{Locales: []*core.LocaleSummary{ok}, Aborted: errors.New("archive")}))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, core.IsFatal(&core.ArchivalError{Err: assert.AnError}))
	assert.True(t, core.IsFatal(&core.SnapshotReadError{Err: assert.AnError}))
	assert.False(t, core.IsFatal(&core.LocaleProcessingError{Locale: "fr", Err: assert.AnError}))
}
