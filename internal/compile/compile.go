// Package compile folds a locale's translation documents into the flat
// lookup artifacts published with the site.
package compile

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/leapstack-labs/polyglot/internal/document"
	"github.com/leapstack-labs/polyglot/pkg/core"
)

// Compiler builds and writes compiled locales.
type Compiler struct {
	project  *core.ProjectConfig
	snapshot *core.Snapshot
	store    *document.Store
	logger   *slog.Logger
}

// New returns a Compiler reading documents from store.
func New(project *core.ProjectConfig, snap *core.Snapshot, store *document.Store, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compiler{project: project, snapshot: snap, store: store, logger: logger}
}

// Fold combines documents into a CompiledLocale. Documents are consulted in
// the order given; the first non-empty value for a key wins, and keys with
// no translation fall back to their original text. The result has exactly
// one entry per snapshot key.
func Fold(locale string, snap *core.Snapshot, docs []*core.Document) *core.CompiledLocale {
	out := &core.CompiledLocale{
		Locale:  locale,
		Entries: make(map[string]core.CompiledEntry, snap.Len()),
		URLs:    make(map[string]core.CompiledEntry, len(snap.Pages())),
	}

	translated := make(map[string]string)
	urls := make(map[string]string)
	for _, doc := range docs {
		for _, key := range doc.Keys {
			if v := doc.Values[key]; v != "" {
				if _, seen := translated[key]; !seen {
					translated[key] = v
				}
			}
		}
		if doc.Kind == core.PageDocument && doc.URLTranslation != "" {
			urls[doc.Source] = doc.URLTranslation
		}
	}

	for _, key := range snap.Keys() {
		entry, _ := snap.Lookup(key)
		value := entry.Original
		if v, ok := translated[key]; ok {
			value = v
		}
		out.Entries[key] = core.CompiledEntry{Original: entry.Original, Value: value}
	}

	for _, page := range snap.Pages() {
		value := page
		if v, ok := urls[page]; ok {
			value = v
		}
		out.URLs[page] = core.CompiledEntry{Original: page, Value: value}
	}

	return out
}

// Load reads every surviving document of a locale in path order.
func (c *Compiler) Load(locale string) ([]*core.Document, error) {
	rels, err := c.store.List(locale)
	if err != nil {
		return nil, &core.LocaleProcessingError{Locale: locale, Err: err}
	}

	sources := c.sources()
	docs := make([]*core.Document, 0, len(rels))
	for _, rel := range rels {
		src, ok := sources[rel]
		if !ok {
			c.logger.Debug("skipping unreferenced document", slog.String("locale", locale), slog.String("document", rel))
			continue
		}
		doc, err := c.store.Read(locale, rel, src.kind, src.id)
		if err != nil {
			return nil, &core.LocaleProcessingError{Locale: locale, Document: rel, Err: err}
		}
		if doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

type source struct {
	kind core.DocumentKind
	id   string
}

func (c *Compiler) sources() map[string]source {
	out := make(map[string]source, len(c.snapshot.Pages())+len(c.project.NamespacePages))
	for _, page := range c.snapshot.Pages() {
		out[document.PagePath(page)] = source{kind: core.PageDocument, id: page}
	}
	for _, ns := range c.project.NamespacePages {
		out[document.NamespacePath(ns)] = source{kind: core.NamespaceDocument, id: ns}
	}
	return out
}

// Compile loads, folds and writes one locale.
func (c *Compiler) Compile(locale string) (*core.CompiledLocale, error) {
	docs, err := c.Load(locale)
	if err != nil {
		return nil, err
	}
	compiled := Fold(locale, c.snapshot, docs)
	if err := c.Write(compiled); err != nil {
		return nil, &core.LocaleProcessingError{Locale: locale, Err: err}
	}
	c.logger.Debug("compiled locale",
		slog.String("locale", locale),
		slog.Int("keys", len(compiled.Entries)),
		slog.Int("translated", compiled.Translated()))
	return compiled, nil
}

// Write stores <locale>.json and <locale>.urls.json in the locales directory.
func (c *Compiler) Write(compiled *core.CompiledLocale) error {
	dir := c.project.Paths.LocalesDir
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, compiled.Locale+".json"), compiled.Entries); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, compiled.Locale+".urls.json"), compiled.URLs)
}

// Marshal renders an artifact map with sorted keys, two-space indentation
// and a trailing newline.
func Marshal(entries map[string]core.CompiledEntry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(path string, entries map[string]core.CompiledEntry) error {
	data, err := Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) { //nolint:gosec // G304: path under locales dir
		return nil
	}
	return os.WriteFile(path, data, 0o644) //nolint:gosec // G306: artifacts are published
}
