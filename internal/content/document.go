// Package content holds the document model shared by every pipeline stage
// and the loader that builds it from a Jekyll-style source tree.
package content

import (
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Collection names with fixed meaning.
const (
	CollectionPosts = "posts"
	CollectionPages = "pages"
)

// Front matter keys read or written by the pipeline.
const (
	FieldTitle        = "title"
	FieldCategories   = "categories"
	FieldSlug         = "slug"
	FieldDate         = "date"
	FieldPin          = "pin"
	FieldLayout       = "layout"
	FieldPermalink    = "permalink"
	FieldPublished    = "published"
	FieldOutput       = "output"
	FieldLastModified = "last_modified_at"
	FieldTailIncludes = "tail_includes"
	FieldPagination   = "pagination"
)

var filenameDate = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-`)

// Document is one source file (or synthetic page) moving through the pipeline.
type Document struct {
	// Content is the body after the front matter block.
	Content string

	// FrontMatter is the free-form metadata bag transforms read and write.
	FrontMatter map[string]any

	// OriginalFrontMatter is a deep copy taken at load time, before collection defaults.
	OriginalFrontMatter map[string]any

	// HadFrontMatter reports whether the source file opened with a front matter block.
	HadFrontMatter bool

	Path       string // source path relative to the source root, slash separated
	Collection string // posts, a named collection, or pages
	Name       string // base name without extension
	Extension  string

	// Generated marks synthetic pages; Listing holds the documents such a page lists.
	Generated bool
	Listing   []*Document
}

// New creates a document with an empty front matter bag.
func New(path, collection string) *Document {
	base := path[strings.LastIndex(path, "/")+1:]
	ext := ""
	if i := strings.LastIndex(base, "."); i > 0 {
		ext = base[i:]
		base = base[:i]
	}
	return &Document{
		Path:        path,
		Collection:  collection,
		Name:        base,
		Extension:   ext,
		FrontMatter: make(map[string]any),
	}
}

// Get returns a raw front matter value.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.FrontMatter[key]
	return v, ok
}

// Set writes a front matter value.
func (d *Document) Set(key string, value any) {
	if d.FrontMatter == nil {
		d.FrontMatter = make(map[string]any)
	}
	d.FrontMatter[key] = value
}

// String returns a trimmed string view of a front matter value, or "".
func (d *Document) String(key string) string {
	v, ok := d.FrontMatter[key]
	if !ok || v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func (d *Document) Title() string     { return d.String(FieldTitle) }
func (d *Document) Slug() string      { return d.String(FieldSlug) }
func (d *Document) Layout() string    { return d.String(FieldLayout) }
func (d *Document) Permalink() string { return d.String(FieldPermalink) }

// Categories returns the ordered category labels. A YAML list and a
// whitespace-separated string are both accepted. Labels are trimmed and keep
// their position, so an empty label in the middle stays as "". Trailing
// empty labels are dropped.
func (d *Document) Categories() []string {
	raw, ok := d.FrontMatter[FieldCategories]
	if !ok || raw == nil {
		return nil
	}
	labels, err := cast.ToStringSliceE(raw)
	if err != nil {
		return nil
	}
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.TrimSpace(l)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// EffectiveDate is the parsed date field, else the date in the file name
// prefix, else the Unix epoch.
func (d *Document) EffectiveDate() time.Time {
	if t, ok := ParseTime(d.FrontMatter[FieldDate]); ok {
		return t
	}
	if t, ok := d.FilenameDate(); ok {
		return t
	}
	return time.Unix(0, 0).UTC()
}

// FilenameDate parses a YYYY-MM-DD- prefix of the file name.
func (d *Document) FilenameDate() (time.Time, bool) {
	m := filenameDate.FindStringSubmatch(d.Name)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Pinned reports whether the named field holds a truthy value.
func (d *Document) Pinned(field string) bool {
	return Truthy(d.FrontMatter[field])
}

// Published is false when either published or output is explicitly falsy.
func (d *Document) Published() bool {
	for _, key := range []string{FieldPublished, FieldOutput} {
		if v, ok := d.FrontMatter[key]; ok && v != nil && !Truthy(v) {
			return false
		}
	}
	return true
}

// IsShowcase reports whether the document uses the showcase layout.
func (d *Document) IsShowcase() bool {
	l := d.Layout()
	return l == "showcase" || l == "showcase.html"
}

// SnapshotFrontMatter stores a deep copy of the current front matter as the original.
func (d *Document) SnapshotFrontMatter() {
	d.OriginalFrontMatter = CloneMap(d.FrontMatter)
}
