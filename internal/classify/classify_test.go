package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/content"
)

func TestTailIncludes(t *testing.T) {
	rules := Rules{
		Both:        []string{"Notes"},
		NavOnly:     []string{" Series "},
		RelatedOnly: []string{"projects"},
		None:        []string{"ABOUT", ""},
	}
	tests := []struct {
		top  string
		want []string
	}{
		{"notes", []string{"related-posts", "post-nav"}},
		{"SERIES", []string{"post-nav"}},
		{"Projects", []string{"related-posts"}},
		{"about", []string{}},
		{"unlisted", []string{"related-posts", "post-nav"}},
		{"", []string{"related-posts", "post-nav"}},
	}
	for _, tt := range tests {
		t.Run(tt.top, func(t *testing.T) {
			assert.Equal(t, tt.want, TailIncludes(tt.top, rules))
		})
	}
}

func TestTailIncludes_FirstMatchingGroupWins(t *testing.T) {
	rules := Rules{NavOnly: []string{"x"}, None: []string{"x"}}
	assert.Equal(t, []string{"post-nav"}, TailIncludes("x", rules))
}

func TestTopCategory(t *testing.T) {
	doc := content.New("_posts/series/2025-01-01-a.md", content.CollectionPosts)
	assert.Equal(t, "series", TopCategory(doc))

	doc.Set(content.FieldCategories, []any{"Notes", "CS"})
	assert.Equal(t, "notes", TopCategory(doc))

	blank := content.New("_posts/series/2025-01-02-b.md", content.CollectionPosts)
	blank.Set(content.FieldCategories, []any{"", "CS"})
	assert.Equal(t, "series", TopCategory(blank))

	flat := content.New("_posts/2025-01-01-a.md", content.CollectionPosts)
	assert.Equal(t, "", TopCategory(flat))
}

func TestApply(t *testing.T) {
	doc := content.New("_posts/a.md", content.CollectionPosts)
	doc.Set(content.FieldLayout, "post")
	doc.Set(content.FieldCategories, []any{"About"})

	got, ok := Apply(doc, Rules{None: []string{"about"}})
	require.True(t, ok)
	assert.Empty(t, got)
	assert.Equal(t, []any{}, doc.FrontMatter["tail_includes"])

	other := content.New("_posts/b.md", content.CollectionPosts)
	other.Set(content.FieldLayout, "page")
	_, ok = Apply(other, Rules{})
	assert.False(t, ok)
	assert.NotContains(t, other.FrontMatter, "tail_includes")
}
