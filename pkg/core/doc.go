// Package core defines the shared language of the polyglot system.
//
// This package contains:
//   - Snapshot entities (KeyEntry, Snapshot)
//   - Translation documents and their editor metadata (Document, InputMetadata, RootMeta)
//   - Compiled artifacts (CompiledLocale)
//   - Run bookkeeping (RunContext, LocaleSummary, RunReport)
//   - Configuration types (ProjectConfig)
//   - The error taxonomy shared by every component
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
