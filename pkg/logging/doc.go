// Package logging configures the process-wide slog logger used by rig.
//
// Records go to stderr, as JSON by default or with slog's text handler
// for people reading a terminal. Every record carries the module name and
// version; debug level adds the source location.
//
// # Levels
//
// Levels are parsed case-insensitively: debug, info (default), warn or
// warning, and error. Unknown values fall back to info.
//
// # Usage
//
// The CLI installs the logger before any command runs:
//
//	logging.SetDefaultLoggerWithFormat("rig", version, "debug", logging.FormatText)
//
// Packages then log through slog.Default() with key-value context:
//
//	slog.Info("image written", "run", runID, "path", path, "recipes", ids)
//	slog.Warn("generation issue", "code", code, "page", page, "error", err)
//
// A standalone logger for tests or tools:
//
//	logger := logging.NewStructuredLogger("rig", "v1.0.0", "warn")
//
// Code expecting a *log.Logger can use NewLogLogger, which forwards to the
// default handler at a fixed level.
//
// # Output
//
//	{"time":"2026-01-15T10:30:00.123Z","level":"INFO","msg":"image written",
//	 "module":"rig","version":"v1.0.0","path":"output/0001_stick.png"}
package logging
