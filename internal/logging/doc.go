// Package logging constructs the slog loggers used across the pipeline.
//
// Console output favors a compact single-line format with optional ANSI
// color when attached to a terminal; JSON output is available for log
// shippers. NewFromConfig tees everything into recode.log under the
// configured log directory.
package logging
