// Package logger provides structured logging for photowall.
//
// It wraps zerolog behind a small Logger interface with a process wide
// instance:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.WithField("query", q).Info("Search started")
//
// The terminal wall owns the screen, so it initializes with
// Options{Quiet: true} and logs to logging.file only.
//
// Tests install a TestLogger with SetLogger and assert on the captured
// messages.
package logger
