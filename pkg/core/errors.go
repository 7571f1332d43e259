package core

import (
	"errors"
	"fmt"
)

// ErrNoConfig is returned when no project configuration file was found.
var ErrNoConfig = errors.New("no polyglot configuration found")

// ConfigurationError reports an invalid or missing configuration field.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// SnapshotReadError reports an unreadable or malformed key snapshot.
type SnapshotReadError struct {
	Path string
	Err  error
}

func (e *SnapshotReadError) Error() string {
	return fmt.Sprintf("read snapshot %s: %v", e.Path, e.Err)
}

func (e *SnapshotReadError) Unwrap() error { return e.Err }

// LocaleProcessingError reports a failure confined to one locale.
type LocaleProcessingError struct {
	Locale   string
	Document string
	Key      string
	Err      error
}

func (e *LocaleProcessingError) Error() string {
	msg := "locale " + e.Locale
	if e.Document != "" {
		msg += ": " + e.Document
	}
	if e.Key != "" {
		msg += ": key " + e.Key
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *LocaleProcessingError) Unwrap() error { return e.Err }

// ArchivalError reports a failed move into the archive. Archival failures
// abort the run, since continuing would overwrite unarchived data.
type ArchivalError struct {
	Source      string
	Destination string
	Err         error
}

func (e *ArchivalError) Error() string {
	return fmt.Sprintf("archive %s -> %s: %v", e.Source, e.Destination, e.Err)
}

func (e *ArchivalError) Unwrap() error { return e.Err }

// MetadataComputationError reports a failure deriving input metadata for a key.
type MetadataComputationError struct {
	Key string
	Err error
}

func (e *MetadataComputationError) Error() string {
	return fmt.Sprintf("metadata for %s: %v", e.Key, e.Err)
}

func (e *MetadataComputationError) Unwrap() error { return e.Err }

// IsFatal reports whether err must abort the whole run rather than a single locale.
func IsFatal(err error) bool {
	var ae *ArchivalError
	var se *SnapshotReadError
	var ce *ConfigurationError
	return errors.As(err, &ae) || errors.As(err, &se) || errors.As(err, &ce)
}
