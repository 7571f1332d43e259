package core

import "time"

// Ledger records the history of runs. Implementations must be safe to call
// from the goroutine that finishes a run; they are never called concurrently.
type Ledger interface {
	RecordRun(report *RunReport, command string) error
	ListRuns(limit int) ([]*RunRecord, error)
	GetRunLocales(runID string) ([]*LocaleRecord, error)
	GetArchivedPaths(runID string) ([]ArchiveEntry, error)
	Close() error
}

// RunStatus is the outcome of a recorded run.
type RunStatus string

// Run statuses.
const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusFailed    RunStatus = "failed"
)

// RunRecord is one persisted run.
type RunRecord struct {
	ID           string        `json:"id"`
	Command      string        `json:"command"`
	Status       RunStatus     `json:"status"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
	Locales      int           `json:"locales"`
	Failed       int           `json:"failed"`
	Archived     int           `json:"archived"`
	ArchiveStamp string        `json:"archive_stamp"`
}

// LocaleRecord is the persisted summary of one locale in a run.
type LocaleRecord struct {
	RunID             string `json:"run_id"`
	Locale            string `json:"locale"`
	PagesWritten      int    `json:"pages_written"`
	NamespacesWritten int    `json:"namespaces_written"`
	Unchanged         int    `json:"unchanged"`
	Archived          int    `json:"archived"`
	Keys              int    `json:"keys"`
	Translated        int    `json:"translated"`
	Compiled          bool   `json:"compiled"`
	Error             string `json:"error,omitempty"`
}

// StatusOf derives the recorded status of a report.
func StatusOf(r *RunReport) RunStatus {
	if r.Aborted != nil {
		return RunStatusFailed
	}
	failed := 0
	for _, l := range r.Locales {
		if l.Failed() {
			failed++
		}
	}
	switch {
	case failed == 0:
		return RunStatusCompleted
	case failed == len(r.Locales):
		return RunStatusFailed
	default:
		return RunStatusPartial
	}
}
