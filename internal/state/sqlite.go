// Package state records reconciliation run history in SQLite.
// It tracks runs, per-locale outcomes, and every path moved into the archive.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/polyglot/pkg/core"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// SQLiteStore implements core.Ledger using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ core.Ledger = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens the database and applies pending migrations.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// every connection to :memory: is a distinct database
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := migrateDB(db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	s.path = path
	s.logger.Debug("state store opened", slog.String("path", path))
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun persists a finished run together with its locale summaries
// and archived paths in a single transaction.
func (s *SQLiteStore) RecordRun(report *core.RunReport, command string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, command, status, started_at, duration_ms, archive_stamp) VALUES (?, ?, ?, ?, ?, ?)`,
		report.Run.ID, command, string(core.StatusOf(report)),
		report.Run.Stamp.UTC().UnixMilli(), report.Duration.Milliseconds(), report.Run.ArchiveStamp(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, a := range report.Archived {
		if err := insertArchived(ctx, tx, report.Run.ID, a); err != nil {
			return err
		}
	}

	for _, l := range report.Locales {
		var errMsg sql.NullString
		if l.Err != nil {
			errMsg = sql.NullString{String: l.Err.Error(), Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO locale_runs (run_id, locale, pages_written, namespaces_written, unchanged, archived, keys, translated, compiled, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			report.Run.ID, l.Locale, l.PagesWritten, l.NamespacesWritten, l.Unchanged,
			len(l.Archived), l.Keys, l.Translated, l.Compiled, errMsg,
		)
		if err != nil {
			return fmt.Errorf("failed to insert locale run %s: %w", l.Locale, err)
		}
		for _, a := range l.Archived {
			if err := insertArchived(ctx, tx, report.Run.ID, a); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Debug("run recorded",
		slog.String("id", report.Run.ID),
		slog.Int("locales", len(report.Locales)),
		slog.Int("archived", report.ArchivedCount()))
	return nil
}

func insertArchived(ctx context.Context, tx *sql.Tx, runID string, a core.ArchiveEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO archived_paths (run_id, locale, source, destination) VALUES (?, ?, ?, ?)`,
		runID, a.Locale, a.Source, a.Destination,
	)
	if err != nil {
		return fmt.Errorf("failed to insert archived path %s: %w", a.Source, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
// A limit of zero or less returns every run.
func (s *SQLiteStore) ListRuns(limit int) ([]*core.RunRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(context.Background(), `
		SELECT r.id, r.command, r.status, r.started_at, r.duration_ms, r.archive_stamp,
		       (SELECT COUNT(*) FROM locale_runs l WHERE l.run_id = r.id),
		       (SELECT COUNT(*) FROM locale_runs l WHERE l.run_id = r.id AND l.error IS NOT NULL),
		       (SELECT COUNT(*) FROM archived_paths a WHERE a.run_id = r.id)
		FROM runs r
		ORDER BY r.started_at DESC, r.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*core.RunRecord
	for rows.Next() {
		var (
			r          core.RunRecord
			status     string
			startedMs  int64
			durationMs int64
		)
		if err := rows.Scan(&r.ID, &r.Command, &status, &startedMs, &durationMs, &r.ArchiveStamp,
			&r.Locales, &r.Failed, &r.Archived); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Status = core.RunStatus(status)
		r.StartedAt = time.UnixMilli(startedMs).UTC()
		r.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// GetRunLocales returns the locale summaries recorded for a run.
func (s *SQLiteStore) GetRunLocales(runID string) ([]*core.LocaleRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(context.Background(), `
		SELECT run_id, locale, pages_written, namespaces_written, unchanged, archived, keys, translated, compiled, error
		FROM locale_runs WHERE run_id = ? ORDER BY locale`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run locales: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*core.LocaleRecord
	for rows.Next() {
		var (
			l      core.LocaleRecord
			errMsg sql.NullString
		)
		if err := rows.Scan(&l.RunID, &l.Locale, &l.PagesWritten, &l.NamespacesWritten, &l.Unchanged,
			&l.Archived, &l.Keys, &l.Translated, &l.Compiled, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan locale run: %w", err)
		}
		l.Error = errMsg.String
		out = append(out, &l)
	}
	return out, rows.Err()
}

// GetArchivedPaths returns every path archived during a run.
func (s *SQLiteStore) GetArchivedPaths(runID string) ([]core.ArchiveEntry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(context.Background(),
		`SELECT locale, source, destination FROM archived_paths WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get archived paths: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []core.ArchiveEntry
	for rows.Next() {
		var a core.ArchiveEntry
		if err := rows.Scan(&a.Locale, &a.Source, &a.Destination); err != nil {
			return nil, fmt.Errorf("failed to scan archived path: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
