package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegraph/cmd/sitegraph/commands"
	dberrors "git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/version"
)

// exitInterrupted follows the shell convention for SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cli := &commands.CLI{}
	global := &commands.Global{Ctx: ctx, Stdout: stdout, Stderr: stderr}

	parser, err := kong.New(cli,
		kong.Name("sitegraph"),
		kong.Description("Build the content graph of a Jekyll-style site: permalinks, ranks, category index pages."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	err = kctx.Run(global, cli)
	defer func() { _ = global.Close() }()

	if err != nil && errors.Is(err, context.Canceled) {
		slog.Warn("Interrupted")
		return exitInterrupted
	}
	return dberrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(err)
}
