package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/polyglot/internal/cli/config"
	"github.com/leapstack-labs/polyglot/internal/cli/output"
	"github.com/leapstack-labs/polyglot/internal/reconcile"
	"github.com/leapstack-labs/polyglot/internal/snapshot"
	"github.com/leapstack-labs/polyglot/internal/state"
	"github.com/leapstack-labs/polyglot/pkg/core"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext returns the dependencies of a command that operates on
// a project. It fails when no config file was found.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cc, err := NewCommandContextWithoutProject(cmd)
	if err != nil {
		return nil, err
	}
	if err := cc.Cfg.RequireFile(); err != nil {
		return nil, err
	}
	if cc.Cfg.Migrated {
		cc.Logger.Info("applied default markdown_keys", slog.String("namespace", config.DefaultMarkdownNamespace))
	}
	cc.Renderer.RenderWarnings(cc.Cfg.Warnings())
	return cc, nil
}

// NewCommandContextWithoutProject returns the dependencies of a command that
// does not need a config file.
func NewCommandContextWithoutProject(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// Helper functions shared across commands

// getConfig returns the configuration stored in the command context by the
// root command, loading it from the command's flags otherwise.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.FromContext(cmd.Context()); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", cmd.Flags())
}

// outputFlag returns the --output flag value, or auto.
func outputFlag(cmd *cobra.Command) string {
	if f := cmd.Flag("output"); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return config.DefaultOutput
}

// newRunContext starts a run with a fresh id.
func newRunContext() core.RunContext {
	return core.RunContext{ID: uuid.NewString(), Stamp: time.Now().UTC()}
}

// newRunner loads the snapshots and wires a runner for cfg.
func newRunner(cfg *config.Config, logger *slog.Logger) (*reconcile.Runner, error) {
	snap, err := snapshot.Load(cfg.Paths.BaseFile, cfg.Paths.BaseURLsFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("snapshot loaded", slog.Int("keys", snap.Len()), slog.Int("pages", len(snap.Pages())))

	project := cfg.Project()
	return reconcile.NewRunner(reconcile.Config{
		Project:     &project,
		Snapshot:    snap,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	}), nil
}

// openLedger opens the run ledger at cfg.StatePath.
func openLedger(cfg *config.Config, logger *slog.Logger) (*state.SQLiteStore, error) {
	if cfg.StatePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.StatePath), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, err
	}
	return store, nil
}

// recordRun writes report to the ledger. Ledger failures never fail a run.
func recordRun(cc *CommandContext, report *core.RunReport, command string) {
	ledger, err := openLedger(cc.Cfg, cc.Logger)
	if err != nil {
		cc.Logger.Warn("run ledger unavailable", slog.String("path", cc.Cfg.StatePath), slog.String("error", err.Error()))
		return
	}
	defer func() { _ = ledger.Close() }()

	if err := ledger.RecordRun(report, command); err != nil {
		cc.Logger.Warn("failed to record run", slog.String("run", report.Run.ID), slog.String("error", err.Error()))
	}
}

// reportError turns locale failures into the command's error.
func reportError(report *core.RunReport) error {
	if !report.Failed() {
		return nil
	}
	failed := 0
	for _, l := range report.Locales {
		if l.Failed() {
			failed++
		}
	}
	return fmt.Errorf("%d of %d locale(s) failed: %w", failed, len(report.Locales), report.Err())
}
