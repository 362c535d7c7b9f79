package hierarchy

import (
	"log/slog"
	"path"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/slug"
)

// ListLayout is the layout every index page renders with.
const ListLayout = "list"

// Key identifies a tree node. Empty levels are unspecified.
type Key struct {
	Top    string
	Level1 string
	Level2 string
}

// Title is the deepest non-empty label.
func (k Key) Title() string {
	switch {
	case k.Level2 != "":
		return k.Level2
	case k.Level1 != "":
		return k.Level1
	default:
		return k.Top
	}
}

// Matches reports whether labels agree with every specified level of the
// key. The top label must be equal; deeper levels compare by slug.
func (k Key) Matches(labels []string, mode slug.Mode) bool {
	if len(labels) == 0 || labels[0] != k.Top {
		return false
	}
	if k.Level1 != "" && (len(labels) < 2 || slug.Slugify(labels[1], mode) != slug.Slugify(k.Level1, mode)) {
		return false
	}
	if k.Level2 != "" && (len(labels) < 3 || slug.Slugify(labels[2], mode) != slug.Slugify(k.Level2, mode)) {
		return false
	}
	return true
}

// IndexPage is a synthetic listing of the documents under one tree node.
type IndexPage struct {
	Key
	Permalink string
	Posts     []*content.Document
}

// Synthesize emits one page per (top, level1) and per (top, level1, level2)
// in tree order. Nothing is emitted for a bare top or an empty tops list.
//
// Nodes are identified by their slugged path, so labels that slug alike
// share one page titled by the first label seen. A level whose slug is empty
// gets no page. Malformed labels only log warnings.
func Synthesize(docs []*content.Document, tops []string, mode slug.Mode) []IndexPage {
	var pages []IndexPage
	claimed := make(map[string]Key)

	emit := func(key Key, segments ...string) {
		link := "/" + path.Join(segments...) + "/"
		if prev, ok := claimed[link]; ok {
			if prev != key {
				slog.Warn("Category labels share an index page",
					logfields.Permalink(link),
					slog.String("kept", prev.Title()),
					slog.String("merged", key.Title()))
			}
			return
		}
		claimed[link] = key
		pages = append(pages, newPage(docs, key, mode, link))
	}

	for _, top := range tops {
		topSlug := slug.Slugify(top, mode)
		if topSlug == "" {
			slog.Warn("Skipping top-level category with an empty slug", slog.String("top", top))
			continue
		}
		tree := BuildTree(docs, top)
		firstLabel := make(map[string]string, tree.Len())
		for _, l1 := range tree.Level1() {
			l1Slug := slug.Slugify(l1, mode)
			if l1Slug == "" {
				slog.Warn("Skipping category with an empty slug", slog.String("top", top), slog.String("label", l1))
				continue
			}
			label, seen := firstLabel[l1Slug]
			if !seen {
				label = l1
				firstLabel[l1Slug] = l1
			} else {
				slog.Warn("Category labels share an index page",
					logfields.Permalink("/"+path.Join(topSlug, l1Slug)+"/"),
					slog.String("kept", label),
					slog.String("merged", l1))
			}
			emit(Key{Top: top, Level1: label}, topSlug, l1Slug)
			for _, l2 := range tree.Level2(l1) {
				l2Slug := slug.Slugify(l2, mode)
				if l2Slug == "" {
					slog.Warn("Skipping category with an empty slug", slog.String("top", top), slog.String("label", l2))
					continue
				}
				emit(Key{Top: top, Level1: label, Level2: l2}, topSlug, l1Slug, l2Slug)
			}
		}
	}
	return pages
}

func newPage(docs []*content.Document, key Key, mode slug.Mode, link string) IndexPage {
	var posts []*content.Document
	for _, doc := range docs {
		if key.Matches(doc.Categories(), mode) {
			posts = append(posts, doc)
		}
	}
	SortByDateDesc(posts)

	return IndexPage{
		Key:       key,
		Permalink: link,
		Posts:     posts,
	}
}

// SortByDateDesc orders documents newest first; equal dates fall back to
// ascending source path.
func SortByDateDesc(docs []*content.Document) {
	slices.SortStableFunc(docs, func(a, b *content.Document) int {
		if c := b.EffectiveDate().Compare(a.EffectiveDate()); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
}

// Document converts the page into a generated document for the emitter.
// The posts field lists member permalinks, falling back to source paths.
func (p IndexPage) Document() *content.Document {
	doc := content.New(strings.TrimPrefix(p.Permalink, "/")+"index.md", content.CollectionPages)
	doc.Generated = true
	doc.Listing = p.Posts

	posts := make([]any, 0, len(p.Posts))
	for _, post := range p.Posts {
		link := post.Permalink()
		if link == "" {
			link = post.Path
		}
		posts = append(posts, link)
	}

	doc.Set(content.FieldLayout, ListLayout)
	doc.Set(content.FieldTitle, p.Title())
	doc.Set(content.FieldPermalink, p.Permalink)
	doc.Set("top", p.Top)
	doc.Set("level1", optional(p.Level1))
	doc.Set("level2", optional(p.Level2))
	doc.Set("posts", posts)
	doc.SnapshotFrontMatter()
	return doc
}

func optional(label string) any {
	if label == "" {
		return nil
	}
	return label
}
