// Package logger builds the slog logger shared by every component.
// all output passes through a handler that scrubs credentials
package logger

import (
	"io"
	"log/slog"
	"os"
)

// creates a new structured logger (w/ specified debug level)
func New(debug bool) *slog.Logger {
	return NewWithWriter(debug, os.Stderr)
}

// NewWithWriter is New with an explicit destination
func NewWithWriter(debug bool, w io.Writer) *slog.Logger {
	var handler slog.Handler

	if !debug {
		// create a handler that discards all log messages
		handler = slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.LevelError,
		})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(NewRedactingHandler(handler))
}
