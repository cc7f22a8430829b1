// Package logging assembles structured slog loggers and formatting helpers used
// across the portfolio pipeline.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code can tag log lines
// with the category, stage, and build run id. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
