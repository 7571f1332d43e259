package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SnapshotKey is one key of a base snapshot fixture.
type SnapshotKey struct {
	Original string
	Pages    []string
}

// WriteBaseSnapshot writes a base.json fixture in the extractor's format.
func WriteBaseSnapshot(t testing.TB, path string, keys map[string]SnapshotKey) {
	t.Helper()

	out := make(map[string]any, len(keys))
	for id, k := range keys {
		pages := make(map[string]int, len(k.Pages))
		for _, p := range k.Pages {
			pages[p] = 1
		}
		out[id] = map[string]any{
			"original": k.Original,
			"pages":    pages,
			"total":    len(k.Pages),
		}
	}
	writeJSON(t, path, map[string]any{"version": 2, "keys": out})
}

// WriteURLSnapshot writes a base.urls.json fixture listing the known pages.
func WriteURLSnapshot(t testing.TB, path string, pages ...string) {
	t.Helper()

	out := make(map[string]any, len(pages))
	for _, p := range pages {
		out[p] = map[string]any{"original": p, "total": 1}
	}
	writeJSON(t, path, map[string]any{"version": 2, "keys": out})
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// ReadFile returns the content of path.
func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // G304: test fixture path
	require.NoError(t, err)
	return string(data)
}

func writeJSON(t testing.TB, path string, v any) {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	WriteFile(t, path, string(data))
}
