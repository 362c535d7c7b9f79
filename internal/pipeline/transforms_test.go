package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/history"
)

type stubSource map[string]history.Facts

func (s stubSource) Facts(_ context.Context, path string) (history.Facts, error) {
	return s[path], nil
}

func post(path, title string, categories ...string) *content.Document {
	doc := content.New(path, content.CollectionPosts)
	doc.Set(content.FieldTitle, title)
	doc.Set(content.FieldLayout, "post")
	cats := make([]any, len(categories))
	for i, c := range categories {
		cats[i] = c
	}
	doc.Set(content.FieldCategories, cats)
	return doc
}

func fixtureSite() []*content.Document {
	first := post("_posts/2024-01-02-first.md", "First Post", "Notes", "Go")
	second := post("_posts/2024-02-03-second.md", "Second", "Notes", "Go", "Testing")
	second.Set(content.FieldPin, true)

	widget := content.New("_projects/widget.md", "projects")
	widget.Set(content.FieldLayout, "showcase")
	widget.Set(content.FieldTitle, "Widget")

	about := content.New("about.md", content.CollectionPages)
	about.Content = "# About Me\n\nHello.\n"

	return []*content.Document{first, second, widget, about}
}

func TestDefaultProcessor_BuildsContentGraph(t *testing.T) {
	cfg := config.Default()
	cfg.TopLevelCategories = []string{"Notes"}
	src := stubSource{
		"_posts/2024-01-02-first.md": {Revisions: 3, Latest: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)},
		"_posts/2024-02-03-second.md": {Revisions: 1, Latest: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)},
	}

	out, err := NewDefaultProcessor(cfg, src).Process(context.Background(), fixtureSite())
	require.NoError(t, err)
	require.Len(t, out, 7)

	first, second, widget, about := out[0], out[1], out[2], out[3]

	assert.Equal(t, "/notes/go/first-post/", first.Permalink())
	assert.Equal(t, "first-post", first.Slug())
	assert.Equal(t, "/notes/go/testing/second/", second.Permalink())

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Unix(), first.FrontMatter["rank"])
	assert.Equal(t, config.DefaultPinWeight+time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC).Unix(), second.FrontMatter["rank"])

	assert.Equal(t, "2024-05-06T07:08:09Z", first.FrontMatter[content.FieldLastModified])
	assert.NotContains(t, second.FrontMatter, content.FieldLastModified)

	assert.Equal(t, []any{"related-posts", "post-nav"}, first.FrontMatter[content.FieldTailIncludes])

	assert.False(t, widget.Published())
	assert.Equal(t, "/widget/", widget.Permalink())

	assert.Equal(t, "About Me", about.Title())

	takeover := out[4]
	assert.True(t, takeover.Generated)
	assert.Equal(t, "widget/index.md", takeover.Path)
	assert.Equal(t, "/widget/", takeover.Permalink())
	assert.Equal(t, "projects", takeover.FrontMatter["collection"])
	pagination, ok := takeover.FrontMatter[content.FieldPagination].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Widget", pagination["category"])
	assert.Equal(t, "rank", pagination["sort_field"])

	goIndex := out[5]
	assert.Equal(t, "/notes/go/", goIndex.Permalink())
	assert.Equal(t, "list", goIndex.Layout())
	assert.Equal(t, []any{"/notes/go/testing/second/", "/notes/go/first-post/"}, goIndex.FrontMatter["posts"])

	testingIndex := out[6]
	assert.Equal(t, "/notes/go/testing/", testingIndex.Permalink())
	assert.Equal(t, []any{"/notes/go/testing/second/"}, testingIndex.FrontMatter["posts"])
}

func TestDefaultProcessor_UnpublishedPostsStayOutOfIndexes(t *testing.T) {
	cfg := config.Default()
	cfg.TopLevelCategories = []string{"Notes"}
	draft := post("_posts/2024-01-02-draft.md", "Draft", "Notes", "Hidden")
	draft.Set(content.FieldPublished, false)

	out, err := NewDefaultProcessor(cfg, nil).Process(context.Background(), []*content.Document{draft})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestDefaultProcessor_ShowcasePagesGetPagination(t *testing.T) {
	page := content.New("work.md", content.CollectionPages)
	page.Set(content.FieldLayout, "showcase")
	page.Set(content.FieldTitle, "Work")

	withTitle := content.New("talks.md", content.CollectionPages)
	withTitle.Set(content.FieldLayout, "showcase")
	withTitle.Set(content.FieldPagination, map[string]any{"enabled": true, "title": "Talks :num"})

	_, err := NewDefaultProcessor(config.Default(), nil).Process(context.Background(), []*content.Document{page, withTitle})
	require.NoError(t, err)

	pagination, ok := page.FrontMatter[content.FieldPagination].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Work", pagination["category"])
	assert.Equal(t, 12, pagination["per_page"])
	assert.Equal(t, map[string]any{"enabled": true, "title": "Talks :num"}, withTitle.FrontMatter[content.FieldPagination])
}

func TestTitleFallback_OnlyMarkdownWithoutTitle(t *testing.T) {
	fn := titleFallback().Fn

	html := content.New("page.html", content.CollectionPages)
	html.Content = "# Heading"
	require.NoError(t, fn(context.Background(), html))
	assert.Empty(t, html.Title())

	titled := content.New("page.md", content.CollectionPages)
	titled.Set(content.FieldTitle, "Kept")
	titled.Content = "# Other"
	require.NoError(t, fn(context.Background(), titled))
	assert.Equal(t, "Kept", titled.Title())
}
