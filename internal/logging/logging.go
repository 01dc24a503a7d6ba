// Package logging builds the process logger: slog text output on stderr,
// optionally teed into a rotating file for the long-running scheduler.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects level and sinks.
type Options struct {
	// Level is debug, info, warn or error. Empty means info.
	Level string

	// Verbose forces debug regardless of Level.
	Verbose bool

	// File enables a rotating log file next to Stderr.
	File       string
	MaxSizeMB  int
	MaxBackups int

	// Stderr receives console output.
	Stderr io.Writer
}

// ParseLevel maps a config level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a logger per opts and a closer for the file sink. The closer
// is a no-op when no file is configured.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = opts.Stderr
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		closer = rotating
		if w == nil {
			w = rotating
		} else {
			w = io.MultiWriter(w, rotating)
		}
	}
	if w == nil {
		w = io.Discard
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
