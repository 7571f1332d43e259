package core

import (
	"sort"
	"strings"
)

// KeyEntry is one translatable unit from the key snapshot.
type KeyEntry struct {
	ID       string
	Original string
	// Pages is the sorted set of page paths referencing the key.
	Pages []string
}

// OnPage reports whether the key is referenced by page.
func (e *KeyEntry) OnPage(page string) bool {
	i := sort.SearchStrings(e.Pages, page)
	return i < len(e.Pages) && e.Pages[i] == page
}

// Snapshot is the read-only extraction of a built site: every key with its
// original text and the pages referencing it, plus the set of known pages.
// A Snapshot is never mutated after NewSnapshot returns, so it is shared
// freely between goroutines.
type Snapshot struct {
	keys     map[string]*KeyEntry
	keyOrder []string
	pages    []string
	pageSet  map[string]struct{}
}

// NewSnapshot builds a Snapshot. Entry page lists are copied and sorted.
func NewSnapshot(entries []*KeyEntry, pages []string) *Snapshot {
	s := &Snapshot{
		keys:    make(map[string]*KeyEntry, len(entries)),
		pageSet: make(map[string]struct{}, len(pages)),
	}
	for _, e := range entries {
		cp := &KeyEntry{ID: e.ID, Original: e.Original, Pages: append([]string(nil), e.Pages...)}
		sort.Strings(cp.Pages)
		s.keys[cp.ID] = cp
	}
	s.keyOrder = make([]string, 0, len(s.keys))
	for id := range s.keys {
		s.keyOrder = append(s.keyOrder, id)
	}
	sort.Strings(s.keyOrder)

	for _, p := range pages {
		if _, ok := s.pageSet[p]; ok {
			continue
		}
		s.pageSet[p] = struct{}{}
		s.pages = append(s.pages, p)
	}
	sort.Strings(s.pages)
	return s
}

// Keys returns every key id in lexical order.
func (s *Snapshot) Keys() []string {
	return s.keyOrder
}

// Lookup returns the entry for a key.
func (s *Snapshot) Lookup(key string) (*KeyEntry, bool) {
	e, ok := s.keys[key]
	return e, ok
}

// Pages returns the known page paths in lexical order.
func (s *Snapshot) Pages() []string {
	return s.pages
}

// HasPage reports whether page is a known page.
func (s *Snapshot) HasPage(page string) bool {
	_, ok := s.pageSet[page]
	return ok
}

// Len returns the number of keys.
func (s *Snapshot) Len() int {
	return len(s.keys)
}

// NamespaceOf returns the first colon-delimited segment of key, or "" when
// the key carries no namespace prefix.
func NamespaceOf(key string) string {
	i := strings.IndexByte(key, ':')
	if i <= 0 {
		return ""
	}
	return key[:i]
}
