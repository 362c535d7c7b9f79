package showcase

import (
	"path"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/slug"
)

// SuppressedPrefix marks permalinks that were parked by an earlier build and
// must be recomputed from the title.
const SuppressedPrefix = "/__tabs_suppressed__/"

var titleToken = regexp.MustCompile(`:title|:Title|:TITLE`)
var titleTokenAnyCase = regexp.MustCompile(`(?i):title`)

// InCollection reports whether doc is a showcase document of a named
// collection, which is what takeover pages replace.
func InCollection(doc *content.Document) bool {
	return doc.IsShowcase() &&
		!doc.Generated &&
		doc.Collection != content.CollectionPosts &&
		doc.Collection != content.CollectionPages
}

// Suppress unpublishes a showcase document of a named collection so that only
// its takeover page is emitted.
func Suppress(doc *content.Document) bool {
	if !InCollection(doc) {
		return false
	}
	doc.Set(content.FieldOutput, false)
	doc.Set(content.FieldPublished, false)
	return true
}

// TargetPermalink computes where the takeover page for doc lives. An empty
// permalink, one containing :title, or a suppressed one becomes /slug(title)/;
// otherwise the explicit permalink is kept with :title substituted.
func TargetPermalink(doc *content.Document, mode slug.Mode) string {
	s := slug.Slugify(doc.Title(), mode)
	current := doc.Permalink()

	target := current
	if current == "" || titleTokenAnyCase.MatchString(current) || strings.HasPrefix(current, SuppressedPrefix) {
		target = "/" + s + "/"
	}
	return titleToken.ReplaceAllString(target, s)
}

// directory turns a URL into its directory form.
func directory(url string) string {
	if path.Ext(url) == "" {
		if strings.HasSuffix(url, "/") {
			return url
		}
		return url + "/"
	}
	return path.Dir(url) + "/"
}

// TakeoverOptions configures Takeover.
type TakeoverOptions struct {
	Mode       slug.Mode
	Pagination PaginationDefaults
}

// Takeover creates one generated page for every titled showcase document of
// a named collection. The page copies the document's front matter and body
// and carries a pagination descriptor for posts in the category named by
// the title. Source documents are not modified.
func Takeover(docs []*content.Document, opts TakeoverOptions) []*content.Document {
	var pages []*content.Document
	for _, doc := range docs {
		if !InCollection(doc) {
			continue
		}
		title := doc.Title()
		if title == "" {
			continue
		}
		dir := directory(TargetPermalink(doc, opts.Mode))

		page := content.New(strings.TrimPrefix(dir, "/")+"index.md", content.CollectionPages)
		page.Generated = true
		page.Content = doc.Content
		page.HadFrontMatter = true
		for k, v := range content.CloneMap(doc.FrontMatter) {
			if k == content.FieldOutput || k == content.FieldPublished {
				continue
			}
			page.Set(k, v)
		}
		page.Set("collection", doc.Collection)
		if _, ok := page.Get("tab"); !ok {
			page.Set("tab", true)
		}
		page.Set(content.FieldTitle, title)
		page.Set(content.FieldPermalink, dir)
		page.Set(content.FieldPagination, Descriptor(title, opts.Pagination).Map())
		page.SnapshotFrontMatter()

		pages = append(pages, page)
	}
	return pages
}

// RewritePermalink points a showcase collection document at its takeover
// location and unpublishes it. It reports whether the permalink changed.
func RewritePermalink(doc *content.Document, mode slug.Mode) (string, bool) {
	if !InCollection(doc) || doc.Title() == "" {
		return "", false
	}
	current := doc.Permalink()
	next := TargetPermalink(doc, mode)
	if next == current {
		return current, false
	}
	doc.Set(content.FieldPermalink, next)
	doc.Set(content.FieldPublished, false)
	return next, true
}
