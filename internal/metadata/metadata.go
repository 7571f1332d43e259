// Package metadata derives the editor metadata of translation documents:
// the per-key input configuration, the translated/untranslated groups, and
// the document-level root entry.
//
// Everything here is pure. The same key, text and configuration always
// produce the same metadata.
package metadata

import (
	"errors"
	"html"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/leapstack-labs/polyglot/pkg/core"
)

// Fixed presentation strings.
const (
	ContextTitle      = "Untranslated text"
	ContextIcon       = "translate"
	URLTranslationTag = "URL Translation"
	highlightLinkText = "Untranslated text"
	pageLinkText      = "See on page"
	truncationSuffix  = "..."
)

// Builder computes input metadata for one configuration. It is safe for
// concurrent use.
type Builder struct {
	cfg    *core.ProjectConfig
	policy *bluemonday.Policy
	// gitPath is the repository-relative path of the translations directory.
	gitPath string
}

// NewBuilder returns a Builder for cfg.
func NewBuilder(cfg *core.ProjectConfig) *Builder {
	return &Builder{
		cfg:     cfg,
		policy:  bluemonday.StrictPolicy(),
		gitPath: repoRelative(cfg.Paths.Root, cfg.Paths.TranslationsDir),
	}
}

// Build returns the metadata for entry as shown on page. Namespace
// documents pass an empty page and get no see-on-page link.
func (b *Builder) Build(entry *core.KeyEntry, page string) (core.InputMetadata, error) {
	if entry == nil {
		return core.InputMetadata{}, &core.MetadataComputationError{Err: errors.New("nil key entry")}
	}
	lengths := b.cfg.InputLengths
	if lengths.TextareaThreshold <= 0 || lengths.LabelTruncateLength <= 0 {
		return core.InputMetadata{}, &core.MetadataComputationError{
			Key: entry.ID,
			Err: errors.New("input lengths must be positive"),
		}
	}

	meta := core.InputMetadata{
		Type:  core.InputText,
		Label: Label(entry.ID, lengths.LabelTruncateLength),
	}

	if mk, ok := b.cfg.MarkdownKeyFor(entry.ID); ok {
		meta.Type = core.InputMarkdown
		opts := mk.EnabledMarkdownOptions
		meta.Options = &opts
	} else if utf8.RuneCountInString(entry.Original) >= lengths.TextareaThreshold {
		meta.Type = core.InputTextarea
	}

	if meta.Type != core.InputText {
		meta.Context = &core.InputContext{
			Open:    false,
			Title:   ContextTitle,
			Icon:    ContextIcon,
			Content: entry.Original,
		}
	}

	if page != "" && b.cfg.SeeOnPageComment.Enabled {
		link := b.PageURL(page) + "#:~:text=" + EncodeTextFragment(b.HighlightText(entry.Original))
		meta.Comment = "[" + highlightLinkText + "](" + link + ")"
	}

	return meta, nil
}

// URLInput returns the metadata of a page document's urlTranslation field.
func (b *Builder) URLInput(page string) *core.InputMetadata {
	meta := &core.InputMetadata{Type: core.InputText, Label: URLTranslationTag}
	if b.cfg.SeeOnPageComment.Enabled {
		meta.Comment = "[" + pageLinkText + "](" + b.PageURL(page) + ")"
	}
	return meta
}

// PageURL joins the configured base URL with a page path.
func (b *Builder) PageURL(page string) string {
	p := strings.TrimPrefix(page, "/")
	if b.cfg.UseExtensionlessURLs {
		switch {
		case p == "index.html":
			p = ""
		case strings.HasSuffix(p, "/index.html"):
			p = strings.TrimSuffix(p, "index.html")
		default:
			p = strings.TrimSuffix(p, ".html")
		}
	}
	return strings.TrimSuffix(b.cfg.SeeOnPageComment.BaseURL, "/") + "/" + p
}

// HighlightText reduces original markup to the visible text a browser
// matches against a text fragment.
func (b *Builder) HighlightText(original string) string {
	s := original
	for _, br := range []string{"<br>", "<br/>", "<br />", "<hr>", "<hr/>", "<hr />"} {
		s = strings.ReplaceAll(s, br, " ")
	}
	s = html.UnescapeString(b.policy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// Label returns the human-readable label of a key: the namespace prefix is
// dropped, percent escapes are decoded and dashes become spaces. Labels
// longer than limit runes are cut and suffixed with "...".
func Label(key string, limit int) string {
	s := key
	if ns := core.NamespaceOf(key); ns != "" {
		s = key[len(ns)+1:]
	}
	if decoded, err := url.PathUnescape(s); err == nil {
		s = decoded
	}
	s = strings.ReplaceAll(s, "-", " ")

	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + truncationSuffix
}

// EncodeTextFragment percent-encodes s for use in a "#:~:text=" directive.
// It matches encodeURIComponent, and additionally escapes the characters
// that are syntax inside a text directive.
func EncodeTextFragment(s string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isFragmentSafe(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0f])
	}
	return sb.String()
}

func isFragmentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// GitHistoryComment returns the root comment linking a document to its
// version control history, or "" when the link is disabled.
func (b *Builder) GitHistoryComment(locale, rel string) string {
	link := b.cfg.GitHistoryLink
	if !link.Enabled {
		return ""
	}
	file := path.Join(b.gitPath, locale, rel)
	target := strings.TrimSuffix(link.RepoURL, "/") + "/commits/" + link.BranchName + "/" + file
	return "[See " + path.Base(rel) + " in git history](" + target + ")"
}

func repoRelative(root, dir string) string {
	if root != "" && filepath.IsAbs(dir) {
		if rel, err := filepath.Rel(root, dir); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return strings.TrimPrefix(filepath.ToSlash(dir), "./")
}
