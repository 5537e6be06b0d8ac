// Package diag routes the per-case diagnostics emitted while scanning a
// results corpus: missing files, unparseable tables, validation skips. None of
// these abort a run, so they all funnel through one replaceable logger.
package diag

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger. The CLI redirects or mutes it; tests mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger,
// which is how batch runs silence per-case chatter.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
