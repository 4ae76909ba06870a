package logging

import (
	"io"
	"log/slog"
	"os"
)

// Options describe how to configure a logger instance.
type Options struct {
	Level  slog.Level
	Output io.Writer
}

// New creates a structured text logger. Output defaults to stderr so stdout
// stays reserved for click reports.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: opts.Level}))
}
