package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/polyglot/internal/testutil"
	"github.com/leapstack-labs/polyglot/pkg/core"
)

var testRun = core.RunContext{ID: "run", Stamp: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)}

func TestManager_ArchiveDocument(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "translations", "fr-FR", "blog", "old.yaml")
	testutil.WriteFile(t, src, "a-test: Bonjour\n")

	m := New(filepath.Join(root, "archived"), testutil.NewTestLogger(t))
	entry, err := m.ArchiveDocument(testRun, "fr-FR", src, "blog/old.yaml")
	require.NoError(t, err)

	want := filepath.Join(root, "archived", "2024-05-01T12-30-00.000Z", "fr-FR", "translations", "blog", "old.yaml")
	assert.Equal(t, want, entry.Destination)
	assert.Equal(t, "fr-FR", entry.Locale)
	assert.NoFileExists(t, src)
	assert.Equal(t, "a-test: Bonjour\n", testutil.ReadFile(t, want))
}

func TestManager_MoveRefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.yaml")
	dst := filepath.Join(root, "archive", "a.yaml")
	testutil.WriteFile(t, src, "new")
	testutil.WriteFile(t, dst, "old")

	err := New(root, nil).Move(src, dst)
	require.Error(t, err)

	var ae *core.ArchivalError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, src, ae.Source)
	assert.ErrorIs(t, err, errDestinationExists)
	assert.Equal(t, "old", testutil.ReadFile(t, dst))
	assert.Equal(t, "new", testutil.ReadFile(t, src))
}

func TestManager_MoveMissingSource(t *testing.T) {
	root := t.TempDir()
	err := New(root, nil).Move(filepath.Join(root, "missing"), filepath.Join(root, "archive", "missing"))

	var ae *core.ArchivalError
	require.True(t, errors.As(err, &ae))
	assert.True(t, core.IsFatal(err))
}

func TestManager_ArchiveRemovedLocales(t *testing.T) {
	root := t.TempDir()
	cfg := &core.ProjectConfig{
		Locales: []string{"fr-FR"},
		Paths: core.Paths{
			TranslationsDir: filepath.Join(root, "translations"),
			LocalesDir:      filepath.Join(root, "locales"),
		},
	}
	testutil.WriteFile(t, filepath.Join(root, "translations", "fr-FR", "index.yaml"), "keep")
	testutil.WriteFile(t, filepath.Join(root, "translations", "es-ES", "index.yaml"), "gone")
	testutil.WriteFile(t, filepath.Join(root, "translations", ".hidden", "x.yaml"), "skip")
	testutil.WriteFile(t, filepath.Join(root, "locales", "fr-FR.json"), "{}")
	testutil.WriteFile(t, filepath.Join(root, "locales", "es-ES.json"), "{}")
	testutil.WriteFile(t, filepath.Join(root, "locales", "es-ES.urls.json"), "{}")
	testutil.WriteFile(t, filepath.Join(root, "locales", "README.md"), "unknown")
	testutil.WriteFile(t, filepath.Join(root, "locales", ".gitkeep"), "")
	testutil.WriteFile(t, filepath.Join(root, "translations", "notes.txt"), "stray")

	m := New(filepath.Join(root, "archived"), testutil.NewTestLogger(t))
	entries, err := m.ArchiveRemovedLocales(testRun, cfg)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	runDir := m.RunDir(testRun)
	assert.Equal(t, "gone", testutil.ReadFile(t, filepath.Join(runDir, "es-ES", "translations", "index.yaml")))
	assert.FileExists(t, filepath.Join(runDir, "es-ES", "locales", "es-ES.json"))
	assert.FileExists(t, filepath.Join(runDir, "es-ES", "locales", "es-ES.urls.json"))

	assert.NoDirExists(t, filepath.Join(root, "translations", "es-ES"))
	assert.DirExists(t, filepath.Join(root, "translations", "fr-FR"))
	assert.DirExists(t, filepath.Join(root, "translations", ".hidden"))
	assert.FileExists(t, filepath.Join(root, "locales", "fr-FR.json"))
	assert.FileExists(t, filepath.Join(root, "locales", ".gitkeep"))

	// Entries without a resolvable locale are archived under their own name.
	assert.Equal(t, "unknown", testutil.ReadFile(t, filepath.Join(runDir, "README.md", "locales", "README.md")))
	assert.Equal(t, "stray", testutil.ReadFile(t, filepath.Join(runDir, "notes.txt", "translations", "notes.txt")))
	assert.NoFileExists(t, filepath.Join(root, "locales", "README.md"))
	assert.NoFileExists(t, filepath.Join(root, "translations", "notes.txt"))
}

func TestManager_ArchiveRemovedLocales_NoDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := &core.ProjectConfig{Paths: core.Paths{
		TranslationsDir: filepath.Join(root, "missing-translations"),
		LocalesDir:      filepath.Join(root, "missing-locales"),
	}}

	entries, err := New(filepath.Join(root, "archived"), nil).ArchiveRemovedLocales(testRun, cfg)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = os.Stat(filepath.Join(root, "archived"))
	assert.True(t, os.IsNotExist(err), "archive is created lazily")
}

func TestCompiledLocaleCode(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"fr-FR.json", "fr-FR", true},
		{"fr-FR.urls.json", "fr-FR", true},
		{".json", "", false},
		{"notes.txt", "", false},
		{".DS_Store", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := CompiledLocaleCode(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestCopyTree(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	testutil.WriteFile(t, filepath.Join(src, "a.yaml"), "a")
	testutil.WriteFile(t, filepath.Join(src, "nested", "b.yaml"), "b")

	dst := filepath.Join(root, "dst")
	require.NoError(t, copyTree(src, dst))

	assert.Equal(t, "a", testutil.ReadFile(t, filepath.Join(dst, "a.yaml")))
	assert.Equal(t, "b", testutil.ReadFile(t, filepath.Join(dst, "nested", "b.yaml")))
}
