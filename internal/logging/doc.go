// Package logging assembles the structured slog loggers shared by the batch
// pipeline CLI and the serving daemon.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides a no-op logger for tests and wiring code that
// cannot fail. Prefer these constructors over hand-rolled slog setup so all
// components emit records with the same shape.
package logging
