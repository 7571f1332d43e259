// Package snapshot loads the key and page snapshots produced by the
// content extractor.
package snapshot

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/leapstack-labs/polyglot/internal/document"
	"github.com/leapstack-labs/polyglot/pkg/core"
)

// errMissingKeys is wrapped when a snapshot has no "keys" object.
var errMissingKeys = errors.New(`missing "keys" object`)

type baseFile struct {
	Keys map[string]*baseEntry `json:"keys"`
}

type baseEntry struct {
	Original *string                    `json:"original"`
	Pages    map[string]json.RawMessage `json:"pages"`
}

type urlsFile struct {
	Keys map[string]json.RawMessage `json:"keys"`
}

// Load reads both snapshot files and combines them into a core.Snapshot.
// Any failure is returned as a *core.SnapshotReadError.
func Load(basePath, urlsPath string) (*core.Snapshot, error) {
	entries, err := LoadKeys(basePath)
	if err != nil {
		return nil, err
	}
	pages, err := LoadPages(urlsPath)
	if err != nil {
		return nil, err
	}
	return core.NewSnapshot(entries, pages), nil
}

// LoadKeys reads the key snapshot.
func LoadKeys(path string) ([]*core.KeyEntry, error) {
	var f baseFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	if f.Keys == nil {
		return nil, &core.SnapshotReadError{Path: path, Err: errMissingKeys}
	}

	entries := make([]*core.KeyEntry, 0, len(f.Keys))
	for id, e := range f.Keys {
		if id == "" {
			return nil, &core.SnapshotReadError{Path: path, Err: errors.New("empty key id")}
		}
		if document.IsReserved(id) {
			return nil, &core.SnapshotReadError{Path: path, Err: &document.ReservedKeyError{Key: id}}
		}
		if e == nil || e.Original == nil {
			return nil, &core.SnapshotReadError{Path: path, Err: fmt.Errorf("key %q has no original text", id)}
		}
		pages := make([]string, 0, len(e.Pages))
		for p := range e.Pages {
			pages = append(pages, p)
		}
		entries = append(entries, &core.KeyEntry{ID: id, Original: *e.Original, Pages: pages})
	}
	return entries, nil
}

// LoadPages reads the page snapshot and returns the known page paths.
func LoadPages(path string) ([]string, error) {
	var f urlsFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	if f.Keys == nil {
		return nil, &core.SnapshotReadError{Path: path, Err: errMissingKeys}
	}

	pages := make([]string, 0, len(f.Keys))
	for p := range f.Keys {
		pages = append(pages, p)
	}
	return pages, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from project config
	if err != nil {
		return &core.SnapshotReadError{Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &core.SnapshotReadError{Path: path, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	return nil
}
