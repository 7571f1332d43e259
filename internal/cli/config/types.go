// Package config provides configuration management for the polyglot CLI.
//
// The translation settings shared with the reconciler and compiler live in
// pkg/core as ProjectConfig. This package embeds them and adds the fields
// only the CLI cares about.
package config

import "github.com/leapstack-labs/polyglot/pkg/core"

// Default values applied before the config file is read.
const (
	DefaultBaseFile            = "rosey/base.json"
	DefaultBaseURLsFile        = "rosey/base.urls.json"
	DefaultTranslationsDir     = "rosey/translations"
	DefaultLocalesDir          = "rosey/locales"
	DefaultArchiveDir          = "rosey/archived"
	DefaultIncomingDir         = "rosey/incoming"
	DefaultStateFile           = ".polyglot/state.db"
	DefaultOutput              = "auto"
	DefaultConcurrency         = 8
	DefaultTextareaThreshold   = 40
	DefaultLabelTruncateLength = 42
	DefaultBranchName          = "main"
)

// DefaultMarkdownNamespace is the namespace injected into markdown_keys
// when a config file predates the setting.
const DefaultMarkdownNamespace = "rcc-markdown"

// ConfigFileNames lists the file names searched for, in order.
var ConfigFileNames = []string{"polyglot.yaml", "polyglot.yml"}

// Config holds all CLI configuration options.
type Config struct {
	core.ProjectConfig `koanf:",squash"`

	StatePath    string `koanf:"state_path"`
	Concurrency  int    `koanf:"concurrency"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// Set by the loader, never read from the file.
	ConfigFile  string `koanf:"-"`
	ProjectRoot string `koanf:"-"`
	// Migrated is true when defaults for settings missing from an older
	// config file were filled in.
	Migrated bool `koanf:"-"`
}

// Project returns the shared translation settings.
func (c *Config) Project() core.ProjectConfig {
	return c.ProjectConfig
}

// defaultMarkdownKeys returns the markdown_keys entry added to configs
// that do not declare one.
func defaultMarkdownKeys() []core.MarkdownKey {
	return []core.MarkdownKey{{
		ID:                     DefaultMarkdownNamespace,
		EnabledMarkdownOptions: core.AllMarkdownOptions(),
	}}
}

// defaults returns the flattened default values loaded first.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"locales":                             []string{},
		"namespace_pages":                     []string{},
		"input_lengths.textarea_threshold":    DefaultTextareaThreshold,
		"input_lengths.label_truncate_length": DefaultLabelTruncateLength,
		"see_on_page_comment.enabled":         false,
		"see_on_page_comment.base_url":        "",
		"git_history_link.enabled":            false,
		"git_history_link.repo_url":           "",
		"git_history_link.branch_name":        DefaultBranchName,
		"use_extensionless_urls":              false,
		"paths.base_file":                     DefaultBaseFile,
		"paths.base_urls_file":                DefaultBaseURLsFile,
		"paths.translations_dir":              DefaultTranslationsDir,
		"paths.locales_dir":                   DefaultLocalesDir,
		"paths.archive_dir":                   DefaultArchiveDir,
		"paths.incoming_dir":                  DefaultIncomingDir,
		"state_path":                          DefaultStateFile,
		"concurrency":                         DefaultConcurrency,
		"verbose":                             false,
		"output":                              DefaultOutput,
	}
}
