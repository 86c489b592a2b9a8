// Package logging assembles structured slog loggers and formatting helpers
// used across the pipeline.
//
// It owns the configurable pretty/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so component code can
// automatically tag log lines with run identifiers and scene numbers. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
