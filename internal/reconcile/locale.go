package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/polyglot/internal/archive"
	"github.com/leapstack-labs/polyglot/internal/document"
	"github.com/leapstack-labs/polyglot/pkg/core"
)

// task is one document to regenerate.
type task struct {
	kind   core.DocumentKind
	source string // page path or namespace id
	rel    string
	result *core.Document
}

// LocaleReconciler regenerates the documents of one locale.
type LocaleReconciler struct {
	locale      string
	reconciler  *Reconciler
	store       *document.Store
	archive     *archive.Manager
	tasks       []*task
	concurrency int
	logger      *slog.Logger
}

func newLocaleReconciler(locale string, cfg *Config, r *Reconciler, tasks []task) *LocaleReconciler {
	lr := &LocaleReconciler{
		locale:      locale,
		reconciler:  r,
		store:       cfg.Store,
		archive:     cfg.Archive,
		tasks:       make([]*task, len(tasks)),
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger.With(slog.String("locale", locale)),
	}
	for i := range tasks {
		t := tasks[i]
		lr.tasks[i] = &t
	}
	return lr
}

// Run reconciles the locale. Archival failures are returned as errors and
// abort the run; every other failure is recorded on the summary.
func (lr *LocaleReconciler) Run(ctx context.Context, run core.RunContext) (*core.LocaleSummary, error) {
	summary := &core.LocaleSummary{Locale: lr.locale}

	if err := lr.store.EnsureLocale(lr.locale); err != nil {
		summary.Err = &core.LocaleProcessingError{Locale: lr.locale, Err: err}
		return summary, nil
	}

	existing, err := lr.store.List(lr.locale)
	if err != nil {
		summary.Err = &core.LocaleProcessingError{Locale: lr.locale, Err: err}
		return summary, nil
	}

	// Stale documents: files that no known page or configured namespace maps to.
	expected := make(map[string]struct{}, len(lr.tasks))
	for _, t := range lr.tasks {
		expected[t.rel] = struct{}{}
	}
	for _, rel := range existing {
		if _, ok := expected[rel]; ok {
			continue
		}
		entry, err := lr.archive.ArchiveDocument(run, lr.locale, lr.store.Path(lr.locale, rel), rel)
		if err != nil {
			return summary, err
		}
		summary.Archived = append(summary.Archived, entry)
	}

	if err := lr.compute(ctx); err != nil {
		summary.Err = err
		lr.logger.Error("locale failed", slog.String("error", err.Error()))
		return summary, nil
	}

	if err := lr.write(ctx, summary); err != nil {
		summary.Err = err
		lr.logger.Error("locale failed", slog.String("error", err.Error()))
		return summary, nil
	}

	// Documents left without content keys are archived, not deleted.
	for _, t := range lr.tasks {
		if t.result != nil || !lr.store.Exists(lr.locale, t.rel) {
			continue
		}
		entry, err := lr.archive.ArchiveDocument(run, lr.locale, lr.store.Path(lr.locale, t.rel), t.rel)
		if err != nil {
			return summary, err
		}
		summary.Archived = append(summary.Archived, entry)
	}

	lr.logger.Info("locale reconciled",
		slog.Int("pages", summary.PagesWritten),
		slog.Int("namespaces", summary.NamespacesWritten),
		slog.Int("unchanged", summary.Unchanged),
		slog.Int("archived", len(summary.Archived)))
	return summary, nil
}

// compute reads and reconciles every document. Nothing is written unless
// all documents succeed.
func (lr *LocaleReconciler) compute(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lr.concurrency)

	for _, t := range lr.tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			existing, err := lr.store.Read(lr.locale, t.rel, t.kind, t.source)
			if err != nil {
				return &core.LocaleProcessingError{Locale: lr.locale, Document: t.rel, Err: err}
			}

			if t.kind == core.NamespaceDocument {
				t.result, err = lr.reconciler.Namespace(lr.locale, t.source, existing)
			} else {
				t.result, err = lr.reconciler.Page(lr.locale, t.source, existing)
			}
			if err != nil {
				le := &core.LocaleProcessingError{Locale: lr.locale, Document: t.rel, Err: err}
				var me *core.MetadataComputationError
				var re *document.ReservedKeyError
				switch {
				case errors.As(err, &me):
					le.Key = me.Key
				case errors.As(err, &re):
					le.Key = re.Key
				}
				return le
			}
			return nil
		})
	}
	return g.Wait()
}

func (lr *LocaleReconciler) write(ctx context.Context, summary *core.LocaleSummary) error {
	var pages, namespaces, unchanged atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lr.concurrency)

	for _, t := range lr.tasks {
		if t.result == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			changed, err := lr.store.Write(lr.locale, t.rel, t.result)
			if err != nil {
				return &core.LocaleProcessingError{Locale: lr.locale, Document: t.rel, Err: err}
			}
			switch {
			case !changed:
				unchanged.Add(1)
			case t.kind == core.NamespaceDocument:
				namespaces.Add(1)
			default:
				pages.Add(1)
			}
			return nil
		})
	}

	err := g.Wait()
	summary.PagesWritten = int(pages.Load())
	summary.NamespacesWritten = int(namespaces.Load())
	summary.Unchanged = int(unchanged.Load())
	return err
}
