package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"github.com/leapstack-labs/polyglot/pkg/core"
)

// validOutputs lists the accepted values of the output setting.
var validOutputs = map[string]bool{
	"":         true,
	"auto":     true,
	"text":     true,
	"markdown": true,
	"json":     true,
}

// Validate checks the configuration and returns every problem found,
// each as a *core.ConfigurationError, joined into one error.
func (c *Config) Validate() error {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, &core.ConfigurationError{Field: field, Err: fmt.Errorf(format, args...)})
	}

	seen := make(map[string]bool, len(c.Locales))
	for _, code := range c.Locales {
		if _, err := language.Parse(code); err != nil {
			fail("locales", "%q is not a valid language tag: %w", code, err)
			continue
		}
		if seen[code] {
			fail("locales", "duplicate locale %q", code)
		}
		seen[code] = true
	}

	validateIDs(c.NamespacePages, "namespace_pages", fail)

	mdIDs := make([]string, 0, len(c.MarkdownKeys))
	for _, mk := range c.MarkdownKeys {
		mdIDs = append(mdIDs, mk.ID)
	}
	validateIDs(mdIDs, "markdown_keys", fail)

	if c.InputLengths.TextareaThreshold <= 0 {
		fail("input_lengths.textarea_threshold", "must be greater than 0, got %d", c.InputLengths.TextareaThreshold)
	}
	if c.InputLengths.LabelTruncateLength <= 0 {
		fail("input_lengths.label_truncate_length", "must be greater than 0, got %d", c.InputLengths.LabelTruncateLength)
	}

	if c.SeeOnPageComment.Enabled && strings.TrimSpace(c.SeeOnPageComment.BaseURL) == "" {
		fail("see_on_page_comment.base_url", "required when see_on_page_comment is enabled")
	}
	if c.GitHistoryLink.Enabled && strings.TrimSpace(c.GitHistoryLink.RepoURL) == "" {
		fail("git_history_link.repo_url", "required when git_history_link is enabled")
	}

	if within(c.Paths.ArchiveDir, c.Paths.TranslationsDir) {
		fail("paths.archive_dir", "%s must not be inside the translations directory %s",
			c.Paths.ArchiveDir, c.Paths.TranslationsDir)
	}

	if c.Concurrency < 1 {
		fail("concurrency", "must be at least 1, got %d", c.Concurrency)
	}

	if !validOutputs[c.OutputFormat] {
		fail("output", "unknown output format %q (want auto, text, markdown or json)", c.OutputFormat)
	}

	return errors.Join(errs...)
}

func validateIDs(ids []string, field string, fail func(field, format string, args ...any)) {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		switch {
		case strings.TrimSpace(id) == "":
			fail(field, "id must not be empty")
		case strings.Contains(id, ":"):
			fail(field, "id %q must not contain a colon", id)
		case seen[id]:
			fail(field, "duplicate id %q", id)
		}
		seen[id] = true
	}
}

// within reports whether path equals dir or lies below it.
func within(path, dir string) bool {
	if path == "" || dir == "" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Warnings returns non-fatal problems worth reporting to the user.
func (c *Config) Warnings() []string {
	var warnings []string
	if len(c.Locales) == 0 {
		warnings = append(warnings, "no locales configured; nothing will be generated")
	}
	for _, code := range c.Locales {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		if canonical := tag.String(); canonical != code {
			warnings = append(warnings, fmt.Sprintf("locale %q is not in canonical form (%q)", code, canonical))
		}
	}
	if c.Migrated {
		warnings = append(warnings, fmt.Sprintf("markdown_keys not set; using default %q namespace", DefaultMarkdownNamespace))
	}
	return warnings
}
