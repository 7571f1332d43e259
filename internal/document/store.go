package document

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/leapstack-labs/polyglot/pkg/core"
)

// Store reads and writes the documents of every locale under one
// translations directory. Paths passed to Store methods are relative to the
// locale directory and use forward slashes.
type Store struct {
	root string
}

// NewStore returns a Store rooted at the translations directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the translations directory.
func (s *Store) Root() string {
	return s.root
}

// LocaleDir returns the directory holding a locale's documents.
func (s *Store) LocaleDir(locale string) string {
	return filepath.Join(s.root, locale)
}

// Path returns the absolute path of a locale document.
func (s *Store) Path(locale, rel string) string {
	return filepath.Join(s.root, locale, filepath.FromSlash(rel))
}

// EnsureLocale creates the locale directory if it does not exist.
func (s *Store) EnsureLocale(locale string) error {
	return os.MkdirAll(s.LocaleDir(locale), 0o750)
}

// Read loads a document. A missing file yields (nil, nil).
func (s *Store) Read(locale, rel string, kind core.DocumentKind, source string) (*core.Document, error) {
	data, err := os.ReadFile(s.Path(locale, rel))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(kind, source, data)
}

// Exists reports whether a document file exists.
func (s *Store) Exists(locale, rel string) bool {
	info, err := os.Stat(s.Path(locale, rel))
	return err == nil && !info.IsDir()
}

// Write encodes and stores doc atomically. It reports false without touching
// the file when the stored bytes are already identical.
func (s *Store) Write(locale, rel string, doc *core.Document) (bool, error) {
	data, err := Encode(doc)
	if err != nil {
		return false, err
	}

	target := s.Path(locale, rel)
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) { //nolint:gosec // G304: path under translations dir
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return false, err
	}
	if err := writeAtomic(target, data); err != nil {
		return false, err
	}
	return true, nil
}

// List returns the relative paths of every document in a locale directory,
// sorted. Files that are not YAML are ignored.
func (s *Store) List(locale string) ([]string, error) {
	dir := s.LocaleDir(locale)
	var out []string

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !IsDocument(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list documents for %s: %w", locale, err)
	}

	sort.Strings(out)
	return out, nil
}

func writeAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".polyglot-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // G302: documents are meant to be shared
		return err
	}
	return os.Rename(tmpName, target)
}
