package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/sitegraph/internal/build"
	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Source          string `short:"s" help:"Override the source directory"`
	Destination     string `short:"d" help:"Override the destination directory"`
	DryRun          bool   `name:"dry-run" help:"Process documents without writing output"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics to this file after the build (overrides metrics.textfile)"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if err := b.applyOverrides(cfg); err != nil {
		return err
	}

	textfile := cfg.Metrics.Textfile
	if b.MetricsTextfile != "" {
		textfile = b.MetricsTextfile
	}
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if textfile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}

	res, err := build.NewBuildService().
		WithRecorder(recorder).
		Run(g.Ctx, build.BuildRequest{Config: cfg, Options: build.BuildOptions{DryRun: b.DryRun}})

	if prom != nil {
		if werr := prom.WriteTextfile(textfile); werr != nil {
			slog.Warn("Metrics textfile not written", logfields.Path(textfile), logfields.Error(werr))
		}
	}
	if err != nil {
		return err
	}

	if b.DryRun {
		_, _ = fmt.Fprintf(g.Stdout, "Processed %d documents (%d generated), nothing written\n", len(res.Documents), res.Generated)
		return nil
	}
	_, _ = fmt.Fprintf(g.Stdout, "Wrote %d documents (%d generated) to %s\n", res.Written, res.Generated, cfg.Destination)
	return nil
}

func (b *BuildCmd) applyOverrides(cfg *config.Config) error {
	if b.Source == "" && b.Destination == "" {
		return nil
	}
	if b.Source != "" {
		cfg.Source = b.Source
	}
	if b.Destination != "" {
		cfg.Destination = b.Destination
	}
	return cfg.Validate()
}
