// Package logging assembles structured slog loggers and formatting helpers used
// across Anthologiser.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so workflow code can tag log lines with the
// run identifier, the current stage, and the source document being split. A
// no-op logger is provided for tests and wiring code that cannot fail.
package logging
