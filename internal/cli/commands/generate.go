package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/polyglot/internal/watch"
	"github.com/leapstack-labs/polyglot/pkg/core"
)

// GenerateOptions holds options for the generate command.
type GenerateOptions struct {
	Watch bool
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Reconcile translation documents with the latest snapshot",
		Long: `Reconcile every configured locale's translation documents with the
extracted key snapshot, then compile each locale.

For each locale this writes one document per page and one per namespace,
keeping every existing translation, adding new keys empty, and moving
documents for pages that disappeared into the archive. Locales removed
from the config are archived too.`,
		Example: `  # Reconcile and compile every locale
  polyglot generate

  # Regenerate whenever the snapshot changes
  polyglot generate --watch

  # Machine-readable summary
  polyglot generate --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Regenerate when the snapshot files change")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *GenerateOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	if opts.Watch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchGenerate(ctx, cc)
	}

	report, err := generate(cmd.Context(), cc)
	if err != nil {
		return err
	}
	return reportError(report)
}

// generate performs one reconciliation run, records it and renders the
// summary. A run aborted by a fatal error is rendered but not recorded.
func generate(ctx context.Context, cc *CommandContext) (*core.RunReport, error) {
	runner, err := newRunner(cc.Cfg, cc.Logger)
	if err != nil {
		return nil, err
	}

	run := newRunContext()
	cc.Logger.Debug("run started", slog.String("run", run.ID), slog.String("stamp", run.ArchiveStamp()))

	report, err := runner.Run(ctx, run)
	if err != nil {
		if report != nil {
			if rerr := cc.Renderer.RenderRun(report, "generate"); rerr != nil {
				cc.Logger.Warn("failed to render run summary", slog.String("error", rerr.Error()))
			}
		}
		return nil, err
	}

	recordRun(cc, report, "generate")
	if err := cc.Renderer.RenderRun(report, "generate"); err != nil {
		return nil, err
	}
	return report, nil
}

// watchGenerate runs once, then reruns whenever a snapshot file changes
// until ctx is cancelled.
func watchGenerate(ctx context.Context, cc *CommandContext) error {
	rerun := func(ctx context.Context) error {
		report, err := generate(ctx, cc)
		if err != nil {
			return err
		}
		return reportError(report)
	}

	if err := rerun(ctx); err != nil {
		cc.Renderer.Error(err.Error())
	}

	w := watch.New(watch.Config{
		Files:    []string{cc.Cfg.Paths.BaseFile, cc.Cfg.Paths.BaseURLsFile},
		OnChange: rerun,
		Logger:   cc.Logger,
	})
	cc.Renderer.Println(cc.Renderer.Muted("Watching snapshot files for changes. Press Ctrl+C to stop."))
	return w.Run(ctx)
}
