// Package logging builds the shared slog logger with console and JSON
// handlers and provides attribute helpers used across the daemon.
package logging
