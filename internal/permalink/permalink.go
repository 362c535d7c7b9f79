// Package permalink derives the slug and permalink of posts from their file
// name, explicit slug, title and category labels.
package permalink

import (
	"log/slog"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/slug"
)

// datePrefix matches YYYY-MM-DD-, YYYY-MM-DD-HH-MM(-SS)- and bare 8-14 digit timestamps.
var datePrefix = regexp.MustCompile(`^(?:\d{4}-\d{2}-\d{2}(?:-\d{2}-\d{2}(?:-\d{2})?)?|\d{8,14})-`)

// Options is the slice of configuration the normalizer reads.
type Options struct {
	Mode        slug.Mode
	PreferTitle bool
	Debug       bool
}

// Result describes every intermediate value of one normalization.
type Result struct {
	Slug           string
	Permalink      string
	CategorySlug   string
	DefaultSlug    string // slug of the file name without its date prefix
	ExistingSource string // explicit slug, or the stripped file name
	Picked         string // "title" or "existing"
}

// StripDatePrefix removes a leading date or timestamp prefix from a base name.
func StripDatePrefix(name string) string {
	return datePrefix.ReplaceAllString(name, "")
}

// Normalize computes slug and permalink without touching the document.
func Normalize(doc *content.Document, opts Options) Result {
	var catSlugs []string
	for _, label := range doc.Categories() {
		if s := slug.Slugify(label, opts.Mode); s != "" {
			catSlugs = append(catSlugs, s)
		}
	}

	tail := StripDatePrefix(doc.Name)
	res := Result{
		CategorySlug:   strings.Join(catSlugs, "/"),
		DefaultSlug:    slug.Slugify(tail, opts.Mode),
		ExistingSource: tail,
	}
	if explicit := doc.Slug(); explicit != "" {
		res.ExistingSource = explicit
	}
	existing := slug.Slugify(res.ExistingSource, opts.Mode)
	titleSlug := slug.Slugify(doc.Title(), opts.Mode)

	// Exact equality: an explicit slug that only differs in case from the
	// file name has already been normalized to lowercase here.
	if opts.PreferTitle && existing == res.DefaultSlug && titleSlug != "" {
		res.Slug, res.Picked = titleSlug, "title"
	} else {
		res.Slug, res.Picked = existing, "existing"
	}

	if res.CategorySlug == "" {
		res.Permalink = "/" + res.Slug + "/"
	} else {
		res.Permalink = "/" + res.CategorySlug + "/" + res.Slug + "/"
	}
	return res
}

// Apply normalizes a post in place, writing slug and permalink. Documents
// outside the posts collection are left alone. Categories are never written.
func Apply(doc *content.Document, opts Options) (Result, bool) {
	if doc.Collection != content.CollectionPosts {
		return Result{}, false
	}
	res := Normalize(doc, opts)
	doc.Set(content.FieldSlug, res.Slug)
	doc.Set(content.FieldPermalink, res.Permalink)

	if opts.Debug {
		slog.Info("slug rules",
			logfields.Path(doc.Path),
			logfields.Mode(string(opts.Mode)),
			slog.Any("categories", doc.Categories()),
			slog.String("category_slug", res.CategorySlug),
			slog.String("default", res.DefaultSlug),
			slog.String("existing", res.ExistingSource),
			slog.String("picked", res.Picked),
			logfields.Slug(res.Slug),
			logfields.Permalink(res.Permalink))
	}
	return res, true
}
