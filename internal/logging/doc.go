// Package logging builds the slog loggers used across repocast, with a
// console handler for interactive use and a JSON handler for log files.
package logging
