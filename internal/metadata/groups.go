package metadata

import "github.com/leapstack-labs/polyglot/pkg/core"

// Group headings, in display order.
const (
	HeadingUntranslated = "Still to translate"
	HeadingTranslated   = "Translated"
)

const (
	commentUntranslated = "Text to translate on this page"
	commentTranslated   = "Text already translated"
)

// Groups partitions a document's keys by whether they carry a translation.
type Groups struct {
	Untranslated []string
	Translated   []string
}

// Assign splits keys into groups, preserving their order within each group.
// A key is translated exactly when its value is non-empty.
func Assign(keys []string, values map[string]string) Groups {
	g := Groups{Untranslated: []string{}, Translated: []string{}}
	for _, k := range keys {
		if values[k] == "" {
			g.Untranslated = append(g.Untranslated, k)
		} else {
			g.Translated = append(g.Translated, k)
		}
	}
	return g
}

// Root builds the document-level "$" entry.
func Root(comment string, g Groups) *core.RootMeta {
	return &core.RootMeta{
		Type:    "object",
		Comment: comment,
		Options: core.RootOptions{
			PlaceGroupsBelow:     false,
			AllowLabelFormatting: true,
			Groups: []core.InputGroup{
				{Heading: HeadingUntranslated, Comment: commentUntranslated, Inputs: g.Untranslated},
				{Heading: HeadingTranslated, Comment: commentTranslated, Inputs: g.Translated},
			},
		},
	}
}

// Regroup recomputes doc's groups from its current values, keeping the
// existing root comment.
func Regroup(doc *core.Document) {
	comment := ""
	if doc.Root != nil {
		comment = doc.Root.Comment
	}
	doc.Root = Root(comment, Assign(doc.Keys, doc.Values))
}
