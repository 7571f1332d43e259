package compile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/polyglot/internal/document"
	"github.com/leapstack-labs/polyglot/internal/testutil"
	"github.com/leapstack-labs/polyglot/pkg/core"
)

func testSnapshot() *core.Snapshot {
	return core.NewSnapshot([]*core.KeyEntry{
		{ID: "a-test", Original: "This is our HTML file.", Pages: []string{"index.html"}},
		{ID: "b-test", Original: "Second", Pages: []string{"index.html", "about.html"}},
		{ID: "common:home", Original: "Home", Pages: []string{"index.html"}},
		{ID: "orphan", Original: "Nowhere"},
	}, []string{"index.html", "about.html"})
}

func pageDoc(page, url string, kv ...string) *core.Document {
	doc := core.NewDocument(core.PageDocument, page)
	doc.URLTranslation = url
	for i := 0; i+1 < len(kv); i += 2 {
		doc.Set(kv[i], kv[i+1])
	}
	return doc
}

func TestFold(t *testing.T) {
	ns := core.NewDocument(core.NamespaceDocument, "common")
	ns.Set("common:home", "Accueil")

	docs := []*core.Document{
		pageDoc("about.html", "a-propos.html", "b-test", ""),
		ns,
		pageDoc("index.html", "", "a-test", "C'est notre fichier HTML.", "b-test", "Deuxième"),
	}

	got := Fold("fr-FR", testSnapshot(), docs)

	assert.Equal(t, "fr-FR", got.Locale)
	assert.Len(t, got.Entries, 4, "one entry per snapshot key")
	assert.Equal(t, core.CompiledEntry{Original: "This is our HTML file.", Value: "C'est notre fichier HTML."}, got.Entries["a-test"])
	assert.Equal(t, core.CompiledEntry{Original: "Second", Value: "Deuxième"}, got.Entries["b-test"])
	assert.Equal(t, core.CompiledEntry{Original: "Home", Value: "Accueil"}, got.Entries["common:home"])
	assert.Equal(t, core.CompiledEntry{Original: "Nowhere", Value: "Nowhere"}, got.Entries["orphan"])
	assert.Equal(t, 3, got.Translated())

	assert.Equal(t, "a-propos.html", got.URLs["about.html"].Value)
	assert.Equal(t, "index.html", got.URLs["index.html"].Value)
}

func TestFold_FirstNonEmptyWins(t *testing.T) {
	docs := []*core.Document{
		pageDoc("about.html", "", "b-test", "Premier"),
		pageDoc("index.html", "", "b-test", "Second"),
	}
	got := Fold("fr-FR", testSnapshot(), docs)
	assert.Equal(t, "Premier", got.Entries["b-test"].Value)
}

func TestFold_IgnoresUnknownKeys(t *testing.T) {
	got := Fold("fr-FR", testSnapshot(), []*core.Document{pageDoc("index.html", "", "stale", "Vieux")})
	_, ok := got.Entries["stale"]
	assert.False(t, ok)
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(map[string]core.CompiledEntry{
		"b": {Original: "<b>B</b>", Value: "<b>B</b>"},
		"a": {Original: "A", Value: "Ä"},
	})
	require.NoError(t, err)

	want := `{
  "a": {
    "original": "A",
    "value": "Ä"
  },
  "b": {
    "original": "<b>B</b>",
    "value": "<b>B</b>"
  }
}
`
	assert.Equal(t, want, string(data))
}

func TestCompiler_Compile(t *testing.T) {
	root := t.TempDir()
	project := &core.ProjectConfig{
		Locales:        []string{"fr-FR"},
		NamespacePages: []string{"common"},
		Paths: core.Paths{
			TranslationsDir: filepath.Join(root, "translations"),
			LocalesDir:      filepath.Join(root, "locales"),
		},
	}
	store := document.NewStore(project.Paths.TranslationsDir)

	testutil.WriteFile(t, store.Path("fr-FR", "index.yaml"), "urlTranslation: accueil.html\na-test: Bonjour\n")
	testutil.WriteFile(t, store.Path("fr-FR", "common.yaml"), "common:home: Accueil\n")
	testutil.WriteFile(t, store.Path("fr-FR", "unrelated.yaml"), "a-test: Ignored\n")

	c := New(project, testSnapshot(), store, testutil.NewTestLogger(t))
	compiled, err := c.Compile("fr-FR")
	require.NoError(t, err)

	assert.Equal(t, "Bonjour", compiled.Entries["a-test"].Value)
	assert.Equal(t, "Accueil", compiled.Entries["common:home"].Value)
	assert.Equal(t, "Second", compiled.Entries["b-test"].Value)
	assert.Equal(t, "accueil.html", compiled.URLs["index.html"].Value)

	out := testutil.ReadFile(t, filepath.Join(root, "locales", "fr-FR.json"))
	assert.Contains(t, out, `"value": "Bonjour"`)
	assert.FileExists(t, filepath.Join(root, "locales", "fr-FR.urls.json"))
}

func TestCompiler_CompileMissingLocaleDir(t *testing.T) {
	root := t.TempDir()
	project := &core.ProjectConfig{Paths: core.Paths{
		TranslationsDir: filepath.Join(root, "translations"),
		LocalesDir:      filepath.Join(root, "locales"),
	}}

	c := New(project, testSnapshot(), document.NewStore(project.Paths.TranslationsDir), nil)
	compiled, err := c.Compile("de-DE")
	require.NoError(t, err)
	assert.Equal(t, "Nowhere", compiled.Entries["orphan"].Value)
	assert.Equal(t, 0, compiled.Translated())
}

func TestCompiler_CorruptDocument(t *testing.T) {
	root := t.TempDir()
	project := &core.ProjectConfig{Paths: core.Paths{
		TranslationsDir: filepath.Join(root, "translations"),
		LocalesDir:      filepath.Join(root, "locales"),
	}}
	store := document.NewStore(project.Paths.TranslationsDir)
	testutil.WriteFile(t, store.Path("fr-FR", "index.yaml"), "a-test: [broken\n")

	_, err := New(project, testSnapshot(), store, nil).Compile("fr-FR")
	var le *core.LocaleProcessingError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "fr-FR", le.Locale)
	assert.Equal(t, "index.yaml", le.Document)
}
