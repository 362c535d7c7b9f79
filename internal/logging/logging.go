// Package logging builds the process slog.Logger from configuration.
package logging

import (
	"io"
	"log/slog"

	"github.com/natefinch/lumberjack"

	"git.home.luguber.info/inful/sitegraph/internal/config"
)

// Options selects the handler. Verbose forces debug level.
type Options struct {
	Config  config.LoggingConfig
	Verbose bool
}

// New returns a logger writing to stderr and, when a file is configured, to
// a size-rotated file as well. The returned closer releases the file sink.
func New(stderr io.Writer, opts Options) (*slog.Logger, io.Closer) {
	level := opts.Config.Level.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var out io.Writer = stderr
	var closer io.Closer = nopCloser{}
	if opts.Config.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.Config.File,
			MaxSize:    opts.Config.MaxSizeMB,
			MaxBackups: opts.Config.MaxBackups,
			MaxAge:     opts.Config.MaxAgeDays,
		}
		out = io.MultiWriter(stderr, file)
		closer = file
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if opts.Config.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	return slog.New(handler), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
