// Package archive moves content that is no longer referenced into a
// timestamped archive tree. Nothing is ever deleted: every archived path is
// recoverable under <archive>/<run-stamp>/<locale>/...
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/leapstack-labs/polyglot/pkg/core"
)

// Sub-directories of a locale's archive.
const (
	TranslationsSubdir = "translations"
	LocalesSubdir      = "locales"
)

// errDestinationExists is wrapped when an archive target is already taken.
var errDestinationExists = errors.New("destination already exists")

// Manager performs archival moves under one archive directory.
// It is safe for concurrent use as long as callers move disjoint paths.
type Manager struct {
	root   string
	logger *slog.Logger
}

// New returns a Manager archiving into root.
func New(root string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{root: root, logger: logger}
}

// RunDir returns the archive directory of a run.
func (m *Manager) RunDir(run core.RunContext) string {
	return filepath.Join(m.root, run.ArchiveStamp())
}

// DocumentDestination returns where a locale document is archived.
func (m *Manager) DocumentDestination(run core.RunContext, locale, rel string) string {
	return filepath.Join(m.RunDir(run), locale, TranslationsSubdir, filepath.FromSlash(rel))
}

// ArchiveDocument moves one locale document into the run's archive.
func (m *Manager) ArchiveDocument(run core.RunContext, locale, src, rel string) (core.ArchiveEntry, error) {
	dst := m.DocumentDestination(run, locale, rel)
	if err := m.Move(src, dst); err != nil {
		return core.ArchiveEntry{}, err
	}
	m.logger.Info("archived document",
		slog.String("locale", locale),
		slog.String("document", rel),
		slog.String("destination", dst))
	return core.ArchiveEntry{Locale: locale, Source: src, Destination: dst}, nil
}

// ArchiveRemovedLocales moves the translation directories and compiled
// files of every locale that is no longer configured. Entries whose locale
// cannot be resolved are archived under their own name. Hidden entries are
// left alone.
func (m *Manager) ArchiveRemovedLocales(run core.RunContext, cfg *core.ProjectConfig) ([]core.ArchiveEntry, error) {
	var out []core.ArchiveEntry

	dirs, err := readDirIfExists(cfg.Paths.TranslationsDir)
	if err != nil {
		return nil, &core.ArchivalError{Source: cfg.Paths.TranslationsDir, Err: err}
	}
	for _, d := range dirs {
		code := d.Name()
		if strings.HasPrefix(code, ".") || (d.IsDir() && cfg.HasLocale(code)) {
			continue
		}
		src := filepath.Join(cfg.Paths.TranslationsDir, code)
		dst := filepath.Join(m.RunDir(run), code, TranslationsSubdir)
		if !d.IsDir() {
			dst = filepath.Join(dst, code)
		}
		if err := m.Move(src, dst); err != nil {
			return out, err
		}
		m.logger.Info("archived removed locale", slog.String("locale", code), slog.String("destination", dst))
		out = append(out, core.ArchiveEntry{Locale: code, Source: src, Destination: dst})
	}

	files, err := readDirIfExists(cfg.Paths.LocalesDir)
	if err != nil {
		return out, &core.ArchivalError{Source: cfg.Paths.LocalesDir, Err: err}
	}
	for _, f := range files {
		name := f.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		code, ok := CompiledLocaleCode(name)
		if !ok {
			code = name
		} else if !f.IsDir() && cfg.HasLocale(code) {
			continue
		}
		src := filepath.Join(cfg.Paths.LocalesDir, name)
		dst := filepath.Join(m.RunDir(run), code, LocalesSubdir, name)
		if err := m.Move(src, dst); err != nil {
			return out, err
		}
		m.logger.Info("archived compiled locale", slog.String("locale", code), slog.String("file", name))
		out = append(out, core.ArchiveEntry{Locale: code, Source: src, Destination: dst})
	}

	return out, nil
}

// CompiledLocaleCode extracts the locale code from a compiled artifact name
// such as "fr-FR.json" or "fr-FR.urls.json".
func CompiledLocaleCode(name string) (string, bool) {
	if strings.HasPrefix(name, ".") {
		return "", false
	}
	for _, suffix := range []string{".urls.json", ".json"} {
		if code, ok := strings.CutSuffix(name, suffix); ok && code != "" {
			return code, true
		}
	}
	return "", false
}

// Move relocates src to dst, creating dst's parent directories. It refuses
// to overwrite an existing destination. Every failure is an ArchivalError.
func (m *Manager) Move(src, dst string) error {
	wrap := func(err error) error {
		return &core.ArchivalError{Source: src, Destination: dst, Err: err}
	}

	if _, err := os.Lstat(dst); err == nil {
		return wrap(errDestinationExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return wrap(fmt.Errorf("create archive directory: %w", err))
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return wrap(err)
	}

	m.logger.Debug("rename crosses devices, copying", slog.String("source", src))
	if err := copyTree(src, dst); err != nil {
		return wrap(err)
	}
	if err := os.RemoveAll(src); err != nil {
		return wrap(fmt.Errorf("remove after copy: %w", err))
	}
	return nil
}

func readDirIfExists(dir string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return entries, err
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		}
		return copyFile(p, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src) //nolint:gosec // G304: src is under a managed directory
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, perm) //nolint:gosec // G304: dst is under the archive
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
