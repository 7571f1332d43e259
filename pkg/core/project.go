package core

// ProjectConfig holds the translation settings shared by the reconciler,
// the metadata builder and the compiler.
type ProjectConfig struct {
	Locales              []string         `koanf:"locales"`
	NamespacePages       []string         `koanf:"namespace_pages"`
	MarkdownKeys         []MarkdownKey    `koanf:"markdown_keys"`
	InputLengths         InputLengths     `koanf:"input_lengths"`
	SeeOnPageComment     SeeOnPageComment `koanf:"see_on_page_comment"`
	GitHistoryLink       GitHistoryLink   `koanf:"git_history_link"`
	UseExtensionlessURLs bool             `koanf:"use_extensionless_urls"`
	Paths                Paths            `koanf:"paths"`
}

// MarkdownKey nominates a namespace whose keys are edited with a markdown input.
type MarkdownKey struct {
	ID                     string          `koanf:"id"`
	EnabledMarkdownOptions MarkdownOptions `koanf:"enabled_markdown_options"`
}

// MarkdownOptions toggles the toolbar buttons of a markdown input.
type MarkdownOptions struct {
	Bold           bool `koanf:"bold" yaml:"bold" json:"bold"`
	Italic         bool `koanf:"italic" yaml:"italic" json:"italic"`
	Strike         bool `koanf:"strike" yaml:"strike" json:"strike"`
	Link           bool `koanf:"link" yaml:"link" json:"link"`
	Subscript      bool `koanf:"subscript" yaml:"subscript" json:"subscript"`
	Superscript    bool `koanf:"superscript" yaml:"superscript" json:"superscript"`
	Underline      bool `koanf:"underline" yaml:"underline" json:"underline"`
	Code           bool `koanf:"code" yaml:"code" json:"code"`
	Undo           bool `koanf:"undo" yaml:"undo" json:"undo"`
	Redo           bool `koanf:"redo" yaml:"redo" json:"redo"`
	RemoveFormat   bool `koanf:"removeformat" yaml:"removeformat" json:"removeformat"`
	CopyFormatting bool `koanf:"copyformatting" yaml:"copyformatting" json:"copyformatting"`
}

// AllMarkdownOptions returns a MarkdownOptions with every button enabled.
func AllMarkdownOptions() MarkdownOptions {
	return MarkdownOptions{
		Bold:           true,
		Italic:         true,
		Strike:         true,
		Link:           true,
		Subscript:      true,
		Superscript:    true,
		Underline:      true,
		Code:           true,
		Undo:           true,
		Redo:           true,
		RemoveFormat:   true,
		CopyFormatting: true,
	}
}

// InputLengths holds the length thresholds used when choosing input types.
type InputLengths struct {
	// TextareaThreshold is the original-text rune count at which a key
	// switches from a text input to a textarea.
	TextareaThreshold int `koanf:"textarea_threshold"`
	// LabelTruncateLength is the maximum rune count of an input label.
	LabelTruncateLength int `koanf:"label_truncate_length"`
}

// SeeOnPageComment configures the deep link to the untranslated page.
type SeeOnPageComment struct {
	Enabled bool   `koanf:"enabled"`
	BaseURL string `koanf:"base_url"`
}

// GitHistoryLink configures the link to a document's version control history.
type GitHistoryLink struct {
	Enabled    bool   `koanf:"enabled"`
	RepoURL    string `koanf:"repo_url"`
	BranchName string `koanf:"branch_name"`
}

// Paths holds the on-disk locations read and written during a run.
// Relative paths are resolved against Root by the config loader.
type Paths struct {
	Root            string `koanf:"-"`
	BaseFile        string `koanf:"base_file"`
	BaseURLsFile    string `koanf:"base_urls_file"`
	TranslationsDir string `koanf:"translations_dir"`
	LocalesDir      string `koanf:"locales_dir"`
	ArchiveDir      string `koanf:"archive_dir"`
	IncomingDir     string `koanf:"incoming_dir"`
}

// IsNamespace reports whether id is one of the configured namespace pages.
func (c *ProjectConfig) IsNamespace(id string) bool {
	if id == "" {
		return false
	}
	for _, ns := range c.NamespacePages {
		if ns == id {
			return true
		}
	}
	return false
}

// MarkdownKeyFor returns the markdown entry whose id equals the key's namespace.
func (c *ProjectConfig) MarkdownKeyFor(key string) (MarkdownKey, bool) {
	ns := NamespaceOf(key)
	if ns == "" {
		return MarkdownKey{}, false
	}
	for _, mk := range c.MarkdownKeys {
		if mk.ID == ns {
			return mk, true
		}
	}
	return MarkdownKey{}, false
}

// HasLocale reports whether code is a configured locale.
func (c *ProjectConfig) HasLocale(code string) bool {
	for _, l := range c.Locales {
		if l == code {
			return true
		}
	}
	return false
}
