// Package commands holds the kong command tree of the sitegraph CLI.
package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/logging"
)

// Global carries process-wide state into every command.
type Global struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	closers []io.Closer
}

// Close releases resources opened while running a command, such as a log file sink.
func (g *Global) Close() error {
	var first error
	for _, c := range g.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	g.closers = nil
	return first
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: sitegraph.yml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Load, process and emit the site content graph"`
	Tree    TreeCmd    `cmd:"" help:"Print the category tree and the index page of every node"`
	Slugify SlugifyCmd `cmd:"" help:"Print the slug of a text for a slug mode"`
}

// AfterApply runs after flag parsing; it installs a stderr logger until a
// command loads the configuration.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(g.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// LoadConfig reads the configuration and replaces the default logger with
// the one it describes.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	logger, closer := logging.New(g.Stderr, logging.Options{Config: cfg.Logging, Verbose: c.Verbose})
	g.closers = append(g.closers, closer)
	slog.SetDefault(logger)
	return cfg, nil
}
