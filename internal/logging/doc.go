// Package logging assembles structured slog loggers for the npm-yaml hook.
//
// It owns the console and JSON handlers, maps configured levels, and fans
// output out to the terminal plus an optional log file. Every run tags its
// lines with a run_id so hook output from concurrent installs can be told
// apart. NewNop gives tests and wiring code a logger that cannot fail.
package logging
