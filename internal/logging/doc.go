// Package logging assembles structured slog loggers and formatting helpers used
// across autosubtitle.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and tags records with the run ID, stage, and video carried by the
// context. A no-op logger is provided for tests and wiring code that cannot
// fail.
package logging
