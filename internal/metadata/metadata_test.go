package metadata

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/polyglot/pkg/core"
)

func testConfig() *core.ProjectConfig {
	opts := core.AllMarkdownOptions()
	opts.Bold = false
	return &core.ProjectConfig{
		Locales:        []string{"fr-FR"},
		NamespacePages: []string{"common"},
		MarkdownKeys:   []core.MarkdownKey{{ID: "rcc-markdown", EnabledMarkdownOptions: opts}},
		InputLengths:   core.InputLengths{TextareaThreshold: 20, LabelTruncateLength: 42},
	}
}

func TestBuild_InputType(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		original string
		want     core.InputType
	}{
		{"short text", "a-test", "Short", core.InputText},
		{"just below threshold", "b", "1234567890123456789", core.InputText},
		{"at threshold", "c", "12345678901234567890", core.InputTextarea},
		{"multibyte counts runes", "d", "ééééééééééééééééééé", core.InputText},
		{"markdown namespace", "rcc-markdown:item", "Hi", core.InputMarkdown},
		{"markdown prefix collision", "rcc-markdown-extra:item", "Hi", core.InputText},
	}

	b := NewBuilder(testConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := b.Build(&core.KeyEntry{ID: tt.key, Original: tt.original}, "index.html")
			require.NoError(t, err)
			assert.Equal(t, tt.want, meta.Type)
		})
	}
}

func TestBuild_MarkdownOptions(t *testing.T) {
	b := NewBuilder(testConfig())

	meta, err := b.Build(&core.KeyEntry{ID: "rcc-markdown:item", Original: "Some **bold** text"}, "index.html")
	require.NoError(t, err)

	assert.Equal(t, core.InputMarkdown, meta.Type)
	require.NotNil(t, meta.Options)
	assert.False(t, meta.Options.Bold)
	assert.True(t, meta.Options.Italic)
	require.NotNil(t, meta.Context)
	assert.Equal(t, "Some **bold** text", meta.Context.Content)
}

// Long text outside a markdown namespace is a textarea and never carries
// markdown options.
func TestBuild_LengthNeverYieldsMarkdown(t *testing.T) {
	b := NewBuilder(testConfig())

	meta, err := b.Build(&core.KeyEntry{ID: "long", Original: "This is a considerably long paragraph of text."}, "index.html")
	require.NoError(t, err)

	assert.Equal(t, core.InputTextarea, meta.Type)
	assert.Nil(t, meta.Options)
	require.NotNil(t, meta.Context)
	assert.Equal(t, ContextTitle, meta.Context.Title)
	assert.Equal(t, ContextIcon, meta.Context.Icon)
}

func TestBuild_TextHasNoContext(t *testing.T) {
	b := NewBuilder(testConfig())

	meta, err := b.Build(&core.KeyEntry{ID: "a-test", Original: "Short"}, "index.html")
	require.NoError(t, err)
	assert.Nil(t, meta.Context)
	assert.Empty(t, meta.Comment)
}

func TestBuild_SeeOnPageComment(t *testing.T) {
	cfg := testConfig()
	cfg.SeeOnPageComment = core.SeeOnPageComment{Enabled: true, BaseURL: "https://example.com/"}
	b := NewBuilder(cfg)

	meta, err := b.Build(&core.KeyEntry{ID: "a-test", Original: "Tom &amp; <b>Jerry</b>, re-run"}, "about/index.html")
	require.NoError(t, err)
	assert.Equal(t, "[Untranslated text](https://example.com/about/index.html#:~:text=Tom%20%26%20Jerry%2C%20re%2Drun)", meta.Comment)

	long, err := b.Build(&core.KeyEntry{ID: "b-test", Original: strings.Repeat("x", 50)}, "about/index.html")
	require.NoError(t, err)
	require.NotNil(t, long.Context)
	assert.Equal(t, "Untranslated text", long.Context.Title)

	assert.Equal(t, "[See on page](https://example.com/about/index.html)", b.URLInput("about/index.html").Comment)

	ns, err := b.Build(&core.KeyEntry{ID: "common:home", Original: "Home"}, "")
	require.NoError(t, err)
	assert.Empty(t, ns.Comment)
}

func TestPageURL_Extensionless(t *testing.T) {
	cfg := testConfig()
	cfg.SeeOnPageComment = core.SeeOnPageComment{Enabled: true, BaseURL: "https://example.com"}
	cfg.UseExtensionlessURLs = true
	b := NewBuilder(cfg)

	assert.Equal(t, "https://example.com/", b.PageURL("index.html"))
	assert.Equal(t, "https://example.com/about/", b.PageURL("about/index.html"))
	assert.Equal(t, "https://example.com/contact", b.PageURL("contact.html"))
}

func TestHighlightText(t *testing.T) {
	b := NewBuilder(testConfig())

	assert.Equal(t, "line one line two", b.HighlightText("line one<br>line two"))
	assert.Equal(t, "x2 and H2O", b.HighlightText("x<sup>2</sup> and H<sub>2</sub>O"))
	assert.Equal(t, "it's", b.HighlightText("it&#39;s"))
}

func TestLabel(t *testing.T) {
	tests := []struct {
		key   string
		limit int
		want  string
	}{
		{"a-test", 42, "a test"},
		{"common:nav-home", 42, "nav home"},
		{"caf%C3%A9-menu", 42, "café menu"},
		{"this-is-a-very-long-key", 10, "this is a ..."},
		{"exact", 5, "exact"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.key, tt.limit))
		})
	}
}

func TestEncodeTextFragment(t *testing.T) {
	assert.Equal(t, "a%20b", EncodeTextFragment("a b"))
	assert.Equal(t, "it's(ok)!", EncodeTextFragment("it's(ok)!"))
	assert.Equal(t, "caf%C3%A9", EncodeTextFragment("café"))
	assert.Equal(t, "a%2Cb%2Dc%26d", EncodeTextFragment("a,b-c&d"))
}

func TestGitHistoryComment(t *testing.T) {
	cfg := testConfig()
	cfg.Paths = core.Paths{Root: "/site", TranslationsDir: "/site/rosey/translations"}
	cfg.GitHistoryLink = core.GitHistoryLink{Enabled: true, RepoURL: "https://github.com/acme/site/", BranchName: "main"}
	b := NewBuilder(cfg)

	assert.Equal(t,
		"[See index.yaml in git history](https://github.com/acme/site/commits/main/rosey/translations/fr-FR/blog/index.yaml)",
		b.GitHistoryComment("fr-FR", "blog/index.yaml"))

	cfg.GitHistoryLink.Enabled = false
	assert.Empty(t, NewBuilder(cfg).GitHistoryComment("fr-FR", "index.yaml"))
}

func TestBuild_InvalidLengths(t *testing.T) {
	cfg := testConfig()
	cfg.InputLengths.TextareaThreshold = 0

	_, err := NewBuilder(cfg).Build(&core.KeyEntry{ID: "a"}, "index.html")
	var me *core.MetadataComputationError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "a", me.Key)
}

func TestBuild_Deterministic(t *testing.T) {
	cfg := testConfig()
	cfg.SeeOnPageComment = core.SeeOnPageComment{Enabled: true, BaseURL: "https://example.com"}
	b := NewBuilder(cfg)
	entry := &core.KeyEntry{ID: "rcc-markdown:x", Original: "A <em>long</em> enough original text"}

	first, err := b.Build(entry, "index.html")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := b.Build(entry, "index.html")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
