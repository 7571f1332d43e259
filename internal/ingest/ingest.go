// Package ingest writes translations received from an external translation
// service back into a locale's documents. Only empty values are filled; a
// value a translator already entered is never replaced.
package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/goccy/go-json"

	"github.com/leapstack-labs/polyglot/internal/document"
	"github.com/leapstack-labs/polyglot/internal/metadata"
	"github.com/leapstack-labs/polyglot/pkg/core"
)

// Summary reports what an import changed for one locale.
type Summary struct {
	Locale    string `json:"locale"`
	Received  int    `json:"received"`
	Filled    int    `json:"filled"`
	Documents int    `json:"documents"`
	Skipped   bool   `json:"skipped"`
	Err       error  `json:"-"`
}

// Importer fills empty document values from <incoming_dir>/<locale>.json.
type Importer struct {
	project *core.ProjectConfig
	store   *document.Store
	conv    *converter.Converter
	logger  *slog.Logger
}

// NewImporter returns an Importer for project.
func NewImporter(project *core.ProjectConfig, store *document.Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Importer{
		project: project,
		store:   store,
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
		logger: logger,
	}
}

// Import processes every configured locale. A locale without an incoming
// file is skipped.
func (im *Importer) Import() []*Summary {
	out := make([]*Summary, 0, len(im.project.Locales))
	for _, locale := range im.project.Locales {
		s, err := im.ImportLocale(locale)
		if err != nil {
			s.Err = err
			im.logger.Error("import failed", slog.String("locale", locale), slog.String("error", err.Error()))
		}
		out = append(out, s)
	}
	return out
}

// IncomingPath returns the received-translations file of a locale.
func (im *Importer) IncomingPath(locale string) string {
	return filepath.Join(im.project.Paths.IncomingDir, locale+".json")
}

// ImportLocale fills one locale's documents. Every document is decoded and
// updated before any is written, so a malformed document leaves the locale
// untouched.
func (im *Importer) ImportLocale(locale string) (*Summary, error) {
	summary := &Summary{Locale: locale}

	incoming, err := im.readIncoming(locale)
	if errors.Is(err, fs.ErrNotExist) {
		summary.Skipped = true
		im.logger.Debug("no incoming translations", slog.String("locale", locale))
		return summary, nil
	}
	if err != nil {
		return summary, &core.LocaleProcessingError{Locale: locale, Document: im.IncomingPath(locale), Err: err}
	}
	summary.Received = len(incoming)

	rels, err := im.store.List(locale)
	if err != nil {
		return summary, &core.LocaleProcessingError{Locale: locale, Err: err}
	}

	type pending struct {
		rel string
		doc *core.Document
	}
	var changed []pending

	for _, rel := range rels {
		kind := core.PageDocument
		if im.isNamespaceDocument(rel) {
			kind = core.NamespaceDocument
		}
		doc, err := im.store.Read(locale, rel, kind, rel)
		if err != nil {
			return summary, &core.LocaleProcessingError{Locale: locale, Document: rel, Err: err}
		}
		if doc == nil {
			continue
		}

		filled, err := im.fill(doc, incoming)
		if err != nil {
			return summary, &core.LocaleProcessingError{Locale: locale, Document: rel, Err: err}
		}
		if filled == 0 {
			continue
		}
		metadata.Regroup(doc)
		summary.Filled += filled
		changed = append(changed, pending{rel: rel, doc: doc})
	}

	for _, p := range changed {
		if _, err := im.store.Write(locale, p.rel, p.doc); err != nil {
			return summary, &core.LocaleProcessingError{Locale: locale, Document: p.rel, Err: err}
		}
		summary.Documents++
	}

	im.logger.Info("imported translations",
		slog.String("locale", locale),
		slog.Int("keys", summary.Filled),
		slog.Int("documents", summary.Documents))
	return summary, nil
}

func (im *Importer) readIncoming(locale string) (map[string]string, error) {
	data, err := os.ReadFile(im.IncomingPath(locale))
	if err != nil {
		return nil, err
	}
	var incoming map[string]string
	if err := json.Unmarshal(data, &incoming); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return incoming, nil
}

func (im *Importer) isNamespaceDocument(rel string) bool {
	for _, ns := range im.project.NamespacePages {
		if rel == document.NamespacePath(ns) {
			return true
		}
	}
	return false
}

// fill copies received values into empty keys and returns how many were set.
func (im *Importer) fill(doc *core.Document, incoming map[string]string) (int, error) {
	filled := 0
	for _, key := range doc.Keys {
		if doc.Values[key] != "" {
			continue
		}
		received := strings.TrimSpace(incoming[key])
		if received == "" {
			continue
		}

		value := received
		if im.isMarkdown(doc, key) {
			md, err := im.conv.ConvertString(received)
			if err != nil {
				return filled, fmt.Errorf("key %s: convert to markdown: %w", key, err)
			}
			value = strings.TrimSpace(md)
		}
		doc.Values[key] = value
		filled++
	}
	return filled, nil
}

func (im *Importer) isMarkdown(doc *core.Document, key string) bool {
	if meta, ok := doc.Inputs[key]; ok && meta.Type != "" {
		return meta.Type == core.InputMarkdown
	}
	_, ok := im.project.MarkdownKeyFor(key)
	return ok
}
