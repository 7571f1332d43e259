package core

// DocumentKind distinguishes per-page documents from namespace documents.
type DocumentKind int

const (
	// PageDocument holds the keys of one page plus its URL translation.
	PageDocument DocumentKind = iota
	// NamespaceDocument holds the keys of one namespace across all pages.
	NamespaceDocument
)

func (k DocumentKind) String() string {
	if k == NamespaceDocument {
		return "namespace"
	}
	return "page"
}

// InputType is the editor input used for a key.
type InputType string

// Input types understood by the editor.
const (
	InputText     InputType = "text"
	InputTextarea InputType = "textarea"
	InputMarkdown InputType = "markdown"
)

// InputMetadata describes how one key is presented in the editor.
type InputMetadata struct {
	Type    InputType        `yaml:"type"`
	Label   string           `yaml:"label,omitempty"`
	Comment string           `yaml:"comment,omitempty"`
	Context *InputContext    `yaml:"context,omitempty"`
	Options *MarkdownOptions `yaml:"options,omitempty"`
}

// InputContext is the collapsible panel showing the untranslated text.
type InputContext struct {
	Open    bool   `yaml:"open"`
	Title   string `yaml:"title"`
	Icon    string `yaml:"icon"`
	Content string `yaml:"content"`
}

// RootMeta is the document-level `$` entry of `_inputs`.
type RootMeta struct {
	Type    string      `yaml:"type"`
	Comment string      `yaml:"comment,omitempty"`
	Options RootOptions `yaml:"options"`
}

// RootOptions controls how the editor groups a document's inputs.
type RootOptions struct {
	PlaceGroupsBelow     bool         `yaml:"place_groups_below"`
	AllowLabelFormatting bool         `yaml:"allow_label_formatting"`
	Groups               []InputGroup `yaml:"groups"`
}

// InputGroup is one ordered, headed group of inputs.
type InputGroup struct {
	Heading string   `yaml:"heading"`
	Comment string   `yaml:"comment,omitempty"`
	Inputs  []string `yaml:"inputs"`
}

// Document is a translation document: a page document or a namespace
// document. Keys carries the output order; Values and Inputs are keyed by
// the same ids.
type Document struct {
	Kind DocumentKind
	// Source is the page path or namespace id the document was built for.
	Source string
	// URLTranslation is only meaningful for page documents.
	URLTranslation string
	// URLInput is the metadata of the urlTranslation field, if any.
	URLInput *InputMetadata
	Keys     []string
	Values   map[string]string
	Inputs   map[string]InputMetadata
	Root     *RootMeta
}

// NewDocument returns an empty document of the given kind.
func NewDocument(kind DocumentKind, source string) *Document {
	return &Document{
		Kind:   kind,
		Source: source,
		Values: make(map[string]string),
		Inputs: make(map[string]InputMetadata),
	}
}

// Has reports whether the document carries key.
func (d *Document) Has(key string) bool {
	_, ok := d.Values[key]
	return ok
}

// Set adds or replaces a key's value, keeping first-seen order.
func (d *Document) Set(key, value string) {
	if _, ok := d.Values[key]; !ok {
		d.Keys = append(d.Keys, key)
	}
	d.Values[key] = value
}

// Empty reports whether the document has no content keys.
func (d *Document) Empty() bool {
	return len(d.Keys) == 0
}
