// Package logger holds the process-wide slog logger used by the cell
// identity packages when their Options carry no logger of their own.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
)

var global atomic.Pointer[slog.Logger]

func init() {
	global.Store(Discard())
}

// Format selects the slog handler.
type Format int

const (
	// FormatText uses slog.TextHandler.
	FormatText Format = iota
	// FormatJSON uses slog.JSONHandler.
	FormatJSON
)

// Options configures Init.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	Writer  io.Writer  // Destination. Ignored when File is set. Default: os.Stderr
	File    string     // Append to this file instead of Writer
	Format  Format     // Handler format. Default: text
	Level   slog.Level // Minimum level. Default: LevelInfo
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// L returns the current process-wide logger.
func L() *slog.Logger { return global.Load() }

// Or returns l, or the process-wide logger when l is nil.
func Or(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return L()
}

// Init replaces the process-wide logger. The returned function closes the
// log file, if one was opened.
func Init(opts Options) (func() error, error) {
	noop := func() error { return nil }
	if !opts.Enabled {
		global.Store(Discard())
		return noop, nil
	}

	w := opts.Writer
	closer := noop
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return noop, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return noop, err
		}
		w = f
		closer = f.Close
	}
	if w == nil {
		w = os.Stderr
	}

	hopts := &slog.HandlerOptions{Level: opts.Level}
	var h slog.Handler
	if opts.Format == FormatJSON {
		h = slog.NewJSONHandler(w, hopts)
	} else {
		h = slog.NewTextHandler(w, hopts)
	}
	global.Store(slog.New(h))
	return closer, nil
}
