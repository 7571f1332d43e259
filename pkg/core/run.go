package core

import (
	"errors"
	"time"
)

// ArchiveStampLayout formats the run timestamp used for archive directories.
const ArchiveStampLayout = "2006-01-02T15-04-05.000Z"

// RunContext identifies one reconciliation run. It is passed explicitly to
// every component so concurrent runs and tests never share a timestamp.
type RunContext struct {
	ID    string
	Stamp time.Time
}

// ArchiveStamp returns the directory name used for this run's archive.
func (r RunContext) ArchiveStamp() string {
	return r.Stamp.UTC().Format(ArchiveStampLayout)
}

// ArchiveEntry records one path moved into the archive.
type ArchiveEntry struct {
	Locale      string `json:"locale"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// LocaleSummary reports what a run did for one locale.
type LocaleSummary struct {
	Locale            string         `json:"locale"`
	PagesWritten      int            `json:"pages_written"`
	NamespacesWritten int            `json:"namespaces_written"`
	Unchanged         int            `json:"unchanged"`
	Archived          []ArchiveEntry `json:"archived,omitempty"`
	Compiled          bool           `json:"compiled"`
	Keys              int            `json:"keys"`
	Translated        int            `json:"translated"`
	Err               error          `json:"-"`
}

// Written returns the number of documents that survived the run.
func (s *LocaleSummary) Written() int {
	return s.PagesWritten + s.NamespacesWritten
}

// Failed reports whether the locale failed.
func (s *LocaleSummary) Failed() bool {
	return s.Err != nil
}

// RunReport aggregates a whole run.
type RunReport struct {
	Run      RunContext
	Locales  []*LocaleSummary
	Archived []ArchiveEntry
	Duration time.Duration
	// Aborted holds the fatal error that stopped the run, if any. The rest
	// of the report describes what happened before it.
	Aborted error
}

// Failed reports whether any locale failed.
func (r *RunReport) Failed() bool {
	for _, l := range r.Locales {
		if l.Failed() {
			return true
		}
	}
	return false
}

// Err joins every locale failure.
func (r *RunReport) Err() error {
	var errs []error
	for _, l := range r.Locales {
		if l.Err != nil {
			errs = append(errs, l.Err)
		}
	}
	return errors.Join(errs...)
}

// ArchivedCount returns the number of paths archived during the run.
func (r *RunReport) ArchivedCount() int {
	n := len(r.Archived)
	for _, l := range r.Locales {
		n += len(l.Archived)
	}
	return n
}
