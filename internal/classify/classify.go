// Package classify decides which tail components render below a post.
package classify

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/content"
)

// Tail component names.
const (
	RelatedPosts = "related-posts"
	PostNav      = "post-nav"
)

// PostLayout is the only layout that receives tail includes.
const PostLayout = "post"

// Rules lists top-level category groups per tail include set.
type Rules struct {
	Both        []string
	NavOnly     []string
	RelatedOnly []string
	None        []string
}

// Normalized returns a copy with every group lowercased and trimmed and empty entries removed.
func (r Rules) Normalized() Rules {
	return Rules{
		Both:        normalize(r.Both),
		NavOnly:     normalize(r.NavOnly),
		RelatedOnly: normalize(r.RelatedOnly),
		None:        normalize(r.None),
	}
}

func normalize(groups []string) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if g = strings.ToLower(strings.TrimSpace(g)); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// TailIncludes maps a top category to its components. Checks run in the
// order both, nav-only, related-only, none; an unmatched top shows both.
func TailIncludes(top string, rules Rules) []string {
	top = strings.ToLower(strings.TrimSpace(top))
	r := rules.Normalized()
	switch {
	case slices.Contains(r.Both, top):
		return []string{RelatedPosts, PostNav}
	case slices.Contains(r.NavOnly, top):
		return []string{PostNav}
	case slices.Contains(r.RelatedOnly, top):
		return []string{RelatedPosts}
	case slices.Contains(r.None, top):
		return []string{}
	default:
		return []string{RelatedPosts, PostNav}
	}
}

// TopCategory is the first category lowercased when it is non-empty, else
// the first directory below _posts/ in the source path, else "".
func TopCategory(doc *content.Document) string {
	if cats := doc.Categories(); len(cats) > 0 && cats[0] != "" {
		return strings.ToLower(cats[0])
	}
	parts := strings.Split(doc.Path, "/")
	for i, p := range parts {
		if p == "_posts" && i+2 < len(parts) {
			return strings.ToLower(parts[i+1])
		}
	}
	return ""
}

// Apply writes tail_includes for posts with the post layout.
func Apply(doc *content.Document, rules Rules) ([]string, bool) {
	if doc.Collection != content.CollectionPosts || doc.Layout() != PostLayout {
		return nil, false
	}
	includes := TailIncludes(TopCategory(doc), rules)
	values := make([]any, len(includes))
	for i, inc := range includes {
		values[i] = inc
	}
	doc.Set(content.FieldTailIncludes, values)
	return includes, true
}
