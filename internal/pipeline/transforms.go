package pipeline

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitegraph/internal/classify"
	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/hierarchy"
	"git.home.luguber.info/inful/sitegraph/internal/history"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/markdown"
	"git.home.luguber.info/inful/sitegraph/internal/permalink"
	"git.home.luguber.info/inful/sitegraph/internal/showcase"
	"git.home.luguber.info/inful/sitegraph/internal/site"
)

// NewDefaultProcessor wires the standard site transforms and generators in
// their required order. src may be nil, which disables last_modified_at.
func NewDefaultProcessor(cfg *config.Config, src history.Source) *Processor {
	if cfg == nil {
		cfg = config.Default()
	}
	p := NewProcessor(cfg)

	p.WithInit(normalizePermalink(cfg))
	if cfg.Rank.Enabled {
		p.WithInit(rankTransform(cfg))
	}
	if cfg.LastModified.Enabled && src != nil {
		p.WithInit(lastModified(src))
	}
	if cfg.Showcase.Enabled {
		p.WithInit(suppressShowcase(), showcasePagination(cfg))
	}

	p.WithGenerators(renormalizePermalinks(cfg))
	if cfg.Showcase.Enabled {
		p.WithGenerators(showcaseTakeover(cfg))
	}
	// Index pages list final permalinks, so they are generated last.
	p.WithGenerators(hierarchicalIndexes(cfg))

	p.WithPrerender(tailIncludes(cfg))
	if cfg.Showcase.Enabled {
		p.WithPrerender(showcasePermalink(cfg))
	}
	p.WithPrerender(titleFallback())
	return p
}

func permalinkOptions(cfg *config.Config) permalink.Options {
	return permalink.Options{Mode: cfg.Slug.Mode, PreferTitle: cfg.Slug.PreferTitle, Debug: cfg.Slug.Debug}
}

func rankOptions(cfg *config.Config) showcase.RankOptions {
	return showcase.RankOptions{
		Collections: cfg.Rank.Collections,
		PinField:    cfg.Rank.PinField,
		DateFields:  cfg.Rank.DateFields,
		PinWeight:   cfg.Rank.PinWeight,
		Field:       cfg.Rank.Field,
	}
}

func paginationDefaults(cfg *config.Config) showcase.PaginationDefaults {
	return showcase.PaginationDefaults{
		PerPage:       cfg.Showcase.Pagination.PerPage,
		SortReverse:   cfg.Showcase.Pagination.SortReverse,
		TitleTemplate: cfg.Showcase.Pagination.TitleTemplate,
		SortField:     cfg.Rank.Field,
	}
}

func normalizePermalink(cfg *config.Config) Transform {
	opts := permalinkOptions(cfg)
	return Transform{Name: "normalize_permalink", Fn: func(_ context.Context, doc *content.Document) error {
		permalink.Apply(doc, opts)
		return nil
	}}
}

func rankTransform(cfg *config.Config) Transform {
	opts := rankOptions(cfg)
	debug := cfg.Rank.Debug
	return Transform{Name: "rank", Fn: func(_ context.Context, doc *content.Document) error {
		rank, ok := showcase.ApplyRank(doc, opts)
		if ok && debug {
			slog.Info("rank computed",
				logfields.Path(doc.Path),
				slog.Bool("pinned", doc.Pinned(opts.PinField)),
				slog.Int64("rank", rank))
		}
		return nil
	}}
}

func lastModified(src history.Source) Transform {
	return Transform{Name: "last_modified", Fn: func(ctx context.Context, doc *content.Document) error {
		history.Apply(ctx, doc, src)
		return nil
	}}
}

func suppressShowcase() Transform {
	return Transform{Name: "showcase_suppress", Fn: func(_ context.Context, doc *content.Document) error {
		showcase.Suppress(doc)
		return nil
	}}
}

// showcasePagination also decorates generated pages, so takeover pages whose
// descriptor lacks a title template still get one.
func showcasePagination(cfg *config.Config) Transform {
	defaults := paginationDefaults(cfg)
	debug := cfg.Showcase.Debug
	return Transform{Name: "showcase_pagination", Generated: true, Fn: func(_ context.Context, doc *content.Document) error {
		if doc.Collection != content.CollectionPages {
			return nil
		}
		outcome := showcase.AttachPagination(doc, defaults)
		if debug && outcome != showcase.Untouched {
			slog.Info("showcase pagination", logfields.Path(doc.Path), slog.String("outcome", outcome.String()))
		}
		return nil
	}}
}

// renormalizePermalinks repeats the permalink pass once all documents are
// loaded. Normalization is idempotent, so this only corrects documents that a
// later init transform changed.
func renormalizePermalinks(cfg *config.Config) Generator {
	opts := permalinkOptions(cfg)
	opts.Debug = false
	return Generator{Name: "normalize_permalinks", Fn: func(gc *GenerationContext) ([]*content.Document, error) {
		for _, doc := range gc.Documents {
			if doc.Generated {
				continue
			}
			permalink.Apply(doc, opts)
		}
		return nil, nil
	}}
}

func showcaseTakeover(cfg *config.Config) Generator {
	opts := showcase.TakeoverOptions{Mode: cfg.Slug.Mode, Pagination: paginationDefaults(cfg)}
	debug := cfg.Showcase.Debug
	return Generator{Name: "showcase_takeover", Fn: func(gc *GenerationContext) ([]*content.Document, error) {
		pages := showcase.Takeover(gc.Documents, opts)
		if debug {
			for _, page := range pages {
				slog.Info("showcase takeover", logfields.Path(page.Path), logfields.Permalink(page.Permalink()))
			}
		}
		return pages, nil
	}}
}

func hierarchicalIndexes(cfg *config.Config) Generator {
	return Generator{Name: "hierarchical_indexes", Fn: func(gc *GenerationContext) ([]*content.Document, error) {
		posts := make([]*content.Document, 0, len(gc.Documents))
		for _, doc := range gc.Documents {
			if doc.Collection == content.CollectionPosts && !doc.Generated && doc.Published() {
				posts = append(posts, doc)
			}
		}
		owned := make(map[string]string, len(gc.Documents))
		for _, doc := range gc.Documents {
			if doc.Published() {
				owned[site.OutputPath(doc)] = doc.Path
			}
		}

		pages := hierarchy.Synthesize(posts, gc.Config.TopLevelCategories, cfg.Slug.Mode)
		out := make([]*content.Document, 0, len(pages))
		for _, page := range pages {
			doc := page.Document()
			if owner, ok := owned[site.OutputPath(doc)]; ok {
				slog.Warn("Index page location already taken, skipping",
					logfields.Permalink(page.Permalink),
					logfields.Path(owner))
				continue
			}
			out = append(out, doc)
		}
		return out, nil
	}}
}

func tailIncludes(cfg *config.Config) Transform {
	rules := classify.Rules{
		Both:        cfg.TailComponents.Both,
		NavOnly:     cfg.TailComponents.NavOnly,
		RelatedOnly: cfg.TailComponents.RelatedOnly,
		None:        cfg.TailComponents.None,
	}.Normalized()
	return Transform{Name: "tail_includes", Fn: func(_ context.Context, doc *content.Document) error {
		classify.Apply(doc, rules)
		return nil
	}}
}

func showcasePermalink(cfg *config.Config) Transform {
	mode := cfg.Slug.Mode
	debug := cfg.Showcase.Debug
	return Transform{Name: "showcase_permalink", Fn: func(_ context.Context, doc *content.Document) error {
		next, changed := showcase.RewritePermalink(doc, mode)
		if changed && debug {
			slog.Info("showcase permalink", logfields.Path(doc.Path), logfields.Permalink(next))
		}
		return nil
	}}
}

func titleFallback() Transform {
	return Transform{Name: "title_fallback", Fn: func(_ context.Context, doc *content.Document) error {
		if doc.Title() != "" || (doc.Extension != ".md" && doc.Extension != ".markdown") {
			return nil
		}
		if title := markdown.FirstHeading([]byte(doc.Content)); title != "" {
			doc.Set(content.FieldTitle, title)
		}
		return nil
	}}
}
