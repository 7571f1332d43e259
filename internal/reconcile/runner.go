package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/polyglot/internal/archive"
	"github.com/leapstack-labs/polyglot/internal/compile"
	"github.com/leapstack-labs/polyglot/internal/document"
	"github.com/leapstack-labs/polyglot/internal/metadata"
	"github.com/leapstack-labs/polyglot/pkg/core"
)

// DefaultConcurrency bounds the documents processed at once per locale.
const DefaultConcurrency = 8

// Config holds the dependencies of a Runner.
type Config struct {
	Project  *core.ProjectConfig
	Snapshot *core.Snapshot
	Store    *document.Store
	Archive  *archive.Manager
	Compiler *compile.Compiler
	// Concurrency bounds the documents processed at once within a locale.
	Concurrency int
	Logger      *slog.Logger
}

// Runner executes a full reconciliation run across every configured locale.
type Runner struct {
	cfg        Config
	reconciler *Reconciler
}

// NewRunner builds a Runner, filling in defaults for optional dependencies.
func NewRunner(cfg Config) *Runner {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Store == nil {
		cfg.Store = document.NewStore(cfg.Project.Paths.TranslationsDir)
	}
	if cfg.Archive == nil {
		cfg.Archive = archive.New(cfg.Project.Paths.ArchiveDir, cfg.Logger)
	}
	if cfg.Compiler == nil {
		cfg.Compiler = compile.New(cfg.Project, cfg.Snapshot, cfg.Store, cfg.Logger)
	}

	return &Runner{
		cfg:        cfg,
		reconciler: NewReconciler(cfg.Project, cfg.Snapshot, metadata.NewBuilder(cfg.Project)),
	}
}

// Reconciler returns the document reconciler used by the runner.
func (r *Runner) Reconciler() *Reconciler {
	return r.reconciler
}

// Run reconciles and compiles every configured locale. Locale failures are
// recorded on the report and do not stop sibling locales. The returned error
// is non-nil only for failures that abort the run: a document path
// collision, or an archival failure.
func (r *Runner) Run(ctx context.Context, run core.RunContext) (*core.RunReport, error) {
	start := time.Now()
	report := &core.RunReport{Run: run}
	logger := r.cfg.Logger.With(slog.String("run", run.ID))

	tasks, err := r.tasks()
	if err != nil {
		report.Aborted = err
		return report, err
	}

	archived, err := r.cfg.Archive.ArchiveRemovedLocales(run, r.cfg.Project)
	report.Archived = archived
	if err != nil {
		report.Aborted = err
		return report, err
	}

	var (
		mu        sync.Mutex
		summaries = make([]*core.LocaleSummary, 0, len(r.cfg.Project.Locales))
	)
	var g errgroup.Group
	for _, locale := range r.cfg.Project.Locales {
		g.Go(func() error {
			summary, err := r.runLocale(ctx, run, locale, tasks)
			mu.Lock()
			summaries = append(summaries, summary)
			mu.Unlock()
			return err
		})
	}
	err = g.Wait()

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Locale < summaries[j].Locale })
	report.Locales = summaries
	report.Duration = time.Since(start)
	report.Aborted = err

	logger.Info("run finished",
		slog.Int("locales", len(summaries)),
		slog.Int("archived", report.ArchivedCount()),
		slog.Duration("duration", report.Duration))
	return report, err
}

func (r *Runner) runLocale(ctx context.Context, run core.RunContext, locale string, tasks []task) (*core.LocaleSummary, error) {
	if err := ctx.Err(); err != nil {
		return &core.LocaleSummary{Locale: locale, Err: &core.LocaleProcessingError{Locale: locale, Err: err}}, nil
	}

	lr := newLocaleReconciler(locale, &r.cfg, r.reconciler, tasks)
	summary, err := lr.Run(ctx, run)
	if err != nil || summary.Failed() {
		return summary, err
	}

	compiled, cerr := r.cfg.Compiler.Compile(locale)
	if cerr != nil {
		summary.Err = cerr
		r.cfg.Logger.Error("compile failed", slog.String("locale", locale), slog.String("error", cerr.Error()))
		return summary, nil
	}
	summary.Compiled = true
	summary.Keys = len(compiled.Entries)
	summary.Translated = compiled.Translated()
	return summary, nil
}

// Compile compiles every configured locale from its existing documents
// without reconciling them first.
func (r *Runner) Compile(run core.RunContext) *core.RunReport {
	start := time.Now()
	report := &core.RunReport{Run: run}

	for _, locale := range r.cfg.Project.Locales {
		summary := &core.LocaleSummary{Locale: locale}
		compiled, err := r.cfg.Compiler.Compile(locale)
		if err != nil {
			summary.Err = err
			r.cfg.Logger.Error("compile failed", slog.String("locale", locale), slog.String("error", err.Error()))
		} else {
			summary.Compiled = true
			summary.Keys = len(compiled.Entries)
			summary.Translated = compiled.Translated()
		}
		report.Locales = append(report.Locales, summary)
	}

	report.Duration = time.Since(start)
	return report
}

// tasks lists every document a locale may hold: one per known page and one
// per configured namespace. Two sources mapping to the same path is a
// configuration error.
func (r *Runner) tasks() ([]task, error) {
	pages := r.cfg.Snapshot.Pages()
	out := make([]task, 0, len(pages)+len(r.cfg.Project.NamespacePages))
	owner := make(map[string]string, cap(out))

	add := func(t task) error {
		if prev, ok := owner[t.rel]; ok {
			return &core.ConfigurationError{
				Field: "namespace_pages",
				Err:   fmt.Errorf("%s and %s both map to document %s", prev, t.source, t.rel),
			}
		}
		owner[t.rel] = t.source
		out = append(out, t)
		return nil
	}

	for _, page := range pages {
		if err := add(task{kind: core.PageDocument, source: page, rel: document.PagePath(page)}); err != nil {
			return nil, err
		}
	}
	for _, ns := range r.cfg.Project.NamespacePages {
		if err := add(task{kind: core.NamespaceDocument, source: ns, rel: document.NamespacePath(ns)}); err != nil {
			return nil, err
		}
	}
	return out, nil
}
