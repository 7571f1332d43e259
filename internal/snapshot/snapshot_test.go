package snapshot

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/polyglot/internal/document"
	"github.com/leapstack-labs/polyglot/internal/testutil"
	"github.com/leapstack-labs/polyglot/pkg/core"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.json")
	urls := filepath.Join(dir, "base.urls.json")

	testutil.WriteBaseSnapshot(t, base, map[string]testutil.SnapshotKey{
		"a-test":      {Original: "This is our HTML file.", Pages: []string{"index.html"}},
		"common:home": {Original: "Home", Pages: []string{"index.html", "about/index.html"}},
	})
	testutil.WriteURLSnapshot(t, urls, "index.html", "about/index.html")

	snap, err := Load(base, urls)
	require.NoError(t, err)

	assert.Equal(t, []string{"a-test", "common:home"}, snap.Keys())
	assert.Equal(t, []string{"about/index.html", "index.html"}, snap.Pages())

	e, ok := snap.Lookup("common:home")
	require.True(t, ok)
	assert.Equal(t, "Home", e.Original)
	assert.Equal(t, []string{"about/index.html", "index.html"}, e.Pages)
}

func TestLoad_EmptyOriginalAllowed(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.json")
	testutil.WriteFile(t, base, `{"keys":{"blank":{"original":"","pages":{"index.html":{}}}}}`)

	entries, err := LoadKeys(base)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].Original)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
		wantIs  error
	}{
		{name: "missing file", missing: true, wantIs: fs.ErrNotExist},
		{name: "corrupt json", content: `{"keys":`},
		{name: "no keys object", content: `{"version":2}`, wantIs: errMissingKeys},
		{name: "missing original", content: `{"keys":{"a":{"pages":{}}}}`},
		{name: "null entry", content: `{"keys":{"a":null}}`},
		{name: "inputs key", content: `{"keys":{"_inputs":{"original":"x","pages":{"index.html":{}}}}}`},
		{name: "url translation key", content: `{"keys":{"urlTranslation":{"original":"x","pages":{"index.html":{}}}}}`},
		{name: "root input key", content: `{"keys":{"$":{"original":"x","pages":{}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "base.json")
			if !tt.missing {
				testutil.WriteFile(t, path, tt.content)
			}

			_, err := LoadKeys(path)
			require.Error(t, err)

			var se *core.SnapshotReadError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, path, se.Path)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestLoadPages_MissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base.urls.json")
	testutil.WriteFile(t, path, `{}`)

	_, err := LoadPages(path)
	assert.ErrorIs(t, err, errMissingKeys)
}

func TestLoad_ReservedKeyNamed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base.json")
	testutil.WriteFile(t, path, `{"keys":{"urlTranslation":{"original":"Hi","pages":{"index.html":{}}}}}`)

	_, err := LoadKeys(path)
	require.Error(t, err)
	var re *document.ReservedKeyError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "urlTranslation", re.Key)
}
