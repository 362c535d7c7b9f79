package showcase

import (
	"strings"

	"github.com/spf13/cast"

	"git.home.luguber.info/inful/sitegraph/internal/content"
)

// DefaultTitleTemplate renders each paginated page with the page's own title.
const DefaultTitleTemplate = ":title"

// Pagination is the descriptor a paginating renderer reads from front matter.
type Pagination struct {
	Enabled     bool
	Collection  string
	Category    string
	PerPage     int
	SortField   string
	SortReverse bool
	Title       string
}

// Map renders the descriptor as a front matter value. Category is omitted when empty.
func (p Pagination) Map() map[string]any {
	m := map[string]any{
		"enabled":      p.Enabled,
		"collection":   p.Collection,
		"per_page":     p.PerPage,
		"sort_field":   p.SortField,
		"sort_reverse": p.SortReverse,
		"title":        p.Title,
	}
	if p.Category != "" {
		m["category"] = p.Category
	}
	return m
}

// PaginationDefaults fills descriptors for showcase pages that lack one.
type PaginationDefaults struct {
	PerPage       int
	SortReverse   bool
	TitleTemplate string
	SortField     string // the rank field
}

// DefaultPaginationDefaults mirrors the configuration defaults.
func DefaultPaginationDefaults() PaginationDefaults {
	return PaginationDefaults{
		PerPage:       12,
		SortReverse:   true,
		TitleTemplate: DefaultTitleTemplate,
		SortField:     "rank",
	}
}

func (d PaginationDefaults) titleTemplate() string {
	if t := strings.TrimSpace(d.TitleTemplate); t != "" {
		return t
	}
	return DefaultTitleTemplate
}

// Descriptor builds a full descriptor listing posts of the given category.
func Descriptor(category string, d PaginationDefaults) Pagination {
	perPage := d.PerPage
	if perPage <= 0 {
		perPage = 12
	}
	sortField := d.SortField
	if sortField == "" {
		sortField = "rank"
	}
	return Pagination{
		Enabled:     true,
		Collection:  content.CollectionPosts,
		Category:    strings.TrimSpace(category),
		PerPage:     perPage,
		SortField:   sortField,
		SortReverse: d.SortReverse,
		Title:       d.titleTemplate(),
	}
}

// Outcome reports what AttachPagination did.
type Outcome int

const (
	Untouched Outcome = iota
	Attached
	TitleFilled
)

func (o Outcome) String() string {
	switch o {
	case Attached:
		return "attached"
	case TitleFilled:
		return "title_filled"
	default:
		return "untouched"
	}
}

// AttachPagination decorates a showcase-layout page. A page without a
// descriptor gets a full one; a descriptor missing its title template gets
// only the template; any other descriptor is left exactly as written.
func AttachPagination(doc *content.Document, d PaginationDefaults) Outcome {
	if !doc.IsShowcase() {
		return Untouched
	}
	raw, present := doc.Get(content.FieldPagination)
	if !present {
		doc.Set(content.FieldPagination, Descriptor(doc.Title(), d).Map())
		return Attached
	}

	existing, ok := raw.(map[string]any)
	if !ok {
		return Untouched
	}
	if strings.TrimSpace(cast.ToString(existing["title"])) != "" {
		return Untouched
	}
	existing["title"] = d.titleTemplate()
	return TitleFilled
}
