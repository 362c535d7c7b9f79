package commands

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/build"
	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/hierarchy"
)

// TreeCmd implements the 'tree' command.
type TreeCmd struct {
	Top []string `arg:"" optional:"" help:"Top-level categories to print (default: top_level_categories)"`
}

func (t *TreeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if len(t.Top) > 0 {
		cfg.TopLevelCategories = t.Top
	}

	res, err := build.NewBuildService().
		WithHistoryFactory(nil).
		Run(g.Ctx, build.BuildRequest{Config: cfg, Options: build.BuildOptions{DryRun: true}})
	if err != nil {
		return err
	}

	var posts []*content.Document
	for _, doc := range res.Documents {
		if doc.Collection == content.CollectionPosts && !doc.Generated && doc.Published() {
			posts = append(posts, doc)
		}
	}
	pages := hierarchy.Synthesize(posts, cfg.TopLevelCategories, cfg.Slug.Mode)
	PrintTree(g.Stdout, cfg.TopLevelCategories, pages)
	return nil
}

// PrintTree writes one line per top category and one indented line per
// index page with its permalink and post count.
func PrintTree(w io.Writer, tops []string, pages []hierarchy.IndexPage) {
	for _, top := range tops {
		_, _ = fmt.Fprintln(w, top)
		for _, p := range pages {
			if p.Top != top {
				continue
			}
			depth := 1
			if p.Level2 != "" {
				depth = 2
			}
			_, _ = fmt.Fprintf(w, "%s%s  %s  (%d)\n", strings.Repeat("  ", depth), p.Title(), p.Permalink, len(p.Posts))
		}
	}
}
