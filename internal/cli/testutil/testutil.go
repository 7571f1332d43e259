// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/polyglot/internal/cli/output"
	"github.com/leapstack-labs/polyglot/internal/testutil"
)

// DefaultProjectConfig is the polyglot.yaml written by SetupTestProject.
const DefaultProjectConfig = `locales:
  - fr-FR
  - de-DE
namespace_pages:
  - common
markdown_keys:
  - id: rcc-markdown
    enabled_markdown_options:
      bold: true
      italic: true
state_path: .polyglot/state.db
`

// SetupTestProject creates a temporary project with a config file and
// snapshots covering two pages and one namespace.
func SetupTestProject(t *testing.T) string {
	t.Helper()
	return SetupTestProjectWithConfig(t, DefaultProjectConfig)
}

// SetupTestProjectWithConfig is SetupTestProject with a custom polyglot.yaml.
func SetupTestProjectWithConfig(t *testing.T, config string) string {
	t.Helper()

	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "polyglot.yaml"), []byte(config), 0o644); err != nil {
		t.Fatalf("failed to create polyglot.yaml: %v", err)
	}

	testutil.WriteBaseSnapshot(t, filepath.Join(tmpDir, "rosey", "base.json"), map[string]testutil.SnapshotKey{
		"a-test":                 {Original: "This is our HTML file.", Pages: []string{"index.html"}},
		"about-heading":          {Original: "About us", Pages: []string{"about/index.html"}},
		"common:nav-home":        {Original: "Home", Pages: []string{"index.html", "about/index.html"}},
		"rcc-markdown:hero-body": {Original: "<p>Welcome <strong>home</strong></p>", Pages: []string{"index.html"}},
	})
	testutil.WriteURLSnapshot(t, filepath.Join(tmpDir, "rosey", "base.urls.json"), "index.html", "about/index.html")

	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererAuto creates a new test renderer with auto mode detection.
// In tests, non-TTY defaults to markdown output.
func NewTestRendererAuto() *TestRenderer {
	return NewTestRenderer(output.ModeAuto, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the combined stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
