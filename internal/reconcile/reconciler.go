// Package reconcile regenerates translation documents from the key
// snapshot. It matches surviving keys to their page or namespace document,
// keeps every existing translation, archives what is no longer referenced,
// and compiles each locale once its documents are written.
package reconcile

import (
	"github.com/leapstack-labs/polyglot/internal/document"
	"github.com/leapstack-labs/polyglot/internal/metadata"
	"github.com/leapstack-labs/polyglot/pkg/core"
)

// Reconciler computes page and namespace documents. It holds no mutable
// state after construction and is shared by every locale of a run.
type Reconciler struct {
	project  *core.ProjectConfig
	snapshot *core.Snapshot
	meta     *metadata.Builder

	// pageKeys lists, per page, the keys that belong on the page document.
	pageKeys map[string][]string
	// namespaceKeys lists, per configured namespace, its keys across all pages.
	namespaceKeys map[string][]string
}

// NewReconciler indexes snap once so each document is built from its own
// key list.
func NewReconciler(project *core.ProjectConfig, snap *core.Snapshot, meta *metadata.Builder) *Reconciler {
	r := &Reconciler{
		project:       project,
		snapshot:      snap,
		meta:          meta,
		pageKeys:      make(map[string][]string),
		namespaceKeys: make(map[string][]string, len(project.NamespacePages)),
	}

	for _, key := range snap.Keys() {
		if ns := core.NamespaceOf(key); project.IsNamespace(ns) {
			r.namespaceKeys[ns] = append(r.namespaceKeys[ns], key)
			continue
		}
		entry, _ := snap.Lookup(key)
		for _, page := range entry.Pages {
			r.pageKeys[page] = append(r.pageKeys[page], key)
		}
	}
	return r
}

// Page builds the document of one page for locale. It returns nil when no
// content key survives, meaning the document should not exist.
func (r *Reconciler) Page(locale, page string, existing *core.Document) (*core.Document, error) {
	keys := r.pageKeys[page]
	if len(keys) == 0 {
		return nil, nil
	}

	doc := core.NewDocument(core.PageDocument, page)
	doc.URLTranslation = page
	if existing != nil && existing.URLTranslation != "" {
		doc.URLTranslation = existing.URLTranslation
	}
	doc.URLInput = r.meta.URLInput(page)

	if err := r.fill(doc, keys, existing, page); err != nil {
		return nil, err
	}

	comment := r.meta.GitHistoryComment(locale, document.PagePath(page))
	doc.Root = metadata.Root(comment, metadata.Assign(doc.Keys, doc.Values))
	return doc, nil
}

// Namespace builds the document of one namespace for locale, or nil when
// no key carries the namespace.
func (r *Reconciler) Namespace(locale, namespace string, existing *core.Document) (*core.Document, error) {
	keys := r.namespaceKeys[namespace]
	if len(keys) == 0 {
		return nil, nil
	}

	doc := core.NewDocument(core.NamespaceDocument, namespace)
	if err := r.fill(doc, keys, existing, ""); err != nil {
		return nil, err
	}

	comment := r.meta.GitHistoryComment(locale, document.NamespacePath(namespace))
	doc.Root = metadata.Root(comment, metadata.Assign(doc.Keys, doc.Values))
	return doc, nil
}

func (r *Reconciler) fill(doc *core.Document, keys []string, existing *core.Document, page string) error {
	for _, key := range keys {
		if document.IsReserved(key) {
			return &document.ReservedKeyError{Key: key}
		}
		value := ""
		if existing != nil && existing.Has(key) {
			value = existing.Values[key]
		}
		doc.Set(key, value)

		entry, _ := r.snapshot.Lookup(key)
		meta, err := r.meta.Build(entry, page)
		if err != nil {
			return err
		}
		doc.Inputs[key] = meta
	}
	return nil
}

// PageKeys returns the keys that belong on a page document.
func (r *Reconciler) PageKeys(page string) []string {
	return r.pageKeys[page]
}

// NamespaceKeys returns the keys of a namespace document.
func (r *Reconciler) NamespaceKeys(namespace string) []string {
	return r.namespaceKeys[namespace]
}
