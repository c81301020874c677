// Package log provides structured event logging for the input runtime.
//
// This package defines the Logger interface and Event types for capturing
// runtime-level events: binding model loads, sync cycles, device slot
// lifecycle, tracking-space changes, and backend errors. It is separate
// from operational logging (slog) - the event trace is a complete
// machine-readable record for debugging input translation problems.
//
// # Basic Usage
//
// The session is configured with a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/tmp/xrizer/session.xlog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files use CBOR encoding with integer keys and the .xlog extension.
// The xrizer-log CLI tool provides viewing and summary statistics.
package log
