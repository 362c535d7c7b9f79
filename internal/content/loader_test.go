package content

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/testutil"
)

func TestCollectionFor(t *testing.T) {
	assert.Equal(t, "posts", CollectionFor("_posts/notes/a.md"))
	assert.Equal(t, "tabs", CollectionFor("_tabs/projects.md"))
	assert.Equal(t, "pages", CollectionFor("about.md"))
	assert.Equal(t, "pages", CollectionFor("docs/guide.md"))
	assert.Equal(t, "pages", CollectionFor("_/x.md"))
}

func TestLoader_Load(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "_posts/notes/2025-01-02-b.md", "---\ntitle: B\ncategories: [Notes]\n---\nbody b\n")
	testutil.WriteFile(t, root, "_posts/2025-01-01-a.md", "---\ntitle: A\nlayout: custom\n---\nbody a\n")
	testutil.WriteFile(t, root, "_tabs/projects.md", "---\ntitle: Projects\nlayout: showcase\n---\n")
	testutil.WriteFile(t, root, "about.md", "no front matter here\n")
	testutil.WriteFile(t, root, "static.html", "<p>static</p>\n")
	testutil.WriteFile(t, root, "index.html", "---\nlayout: home\n---\n<p>home</p>\n")
	testutil.WriteFile(t, root, "_layouts/post.html", "---\n---\n{{ content }}\n")
	testutil.WriteFile(t, root, ".git/README.md", "ignored\n")
	testutil.WriteFile(t, root, "_site/old/index.md", "---\ntitle: stale\n---\n")
	testutil.WriteFile(t, root, "drafts/wip.md", "---\ntitle: wip\n---\n")
	testutil.WriteFile(t, root, "notes.txt", "not content\n")

	loader := &Loader{
		Destination: filepath.Join(root, "_site"),
		Exclude:     []string{"drafts"},
		Defaults:    map[string]map[string]any{"posts": {"layout": "post"}},
	}
	docs, err := loader.Load(context.Background(), root)
	require.NoError(t, err)

	paths := make([]string, 0, len(docs))
	for _, d := range docs {
		paths = append(paths, d.Path)
	}
	assert.Equal(t, []string{
		"_posts/2025-01-01-a.md",
		"_posts/notes/2025-01-02-b.md",
		"_tabs/projects.md",
		"about.md",
		"index.html",
	}, paths)

	a, b, tab, about := docs[0], docs[1], docs[2], docs[3]
	assert.Equal(t, "posts", a.Collection)
	assert.Equal(t, "custom", a.Layout(), "explicit layout beats collection default")
	assert.Equal(t, "post", b.Layout())
	_, hadLayout := b.OriginalFrontMatter["layout"]
	assert.False(t, hadLayout, "defaults are not part of the original front matter")
	assert.Equal(t, "body b\n", b.Content)
	assert.Equal(t, "tabs", tab.Collection)
	assert.True(t, tab.IsShowcase())
	assert.Equal(t, "pages", about.Collection)
	assert.False(t, about.HadFrontMatter)
	assert.Equal(t, "no front matter here\n", about.Content)
}

func TestLoader_UnterminatedFrontMatterFails(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "_posts/broken.md", "---\ntitle: x\nbody without closing\n")

	_, err := (&Loader{}).Load(context.Background(), root)
	require.Error(t, err)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryContent, classified.Category())
	path, _ := classified.Context().GetString("path")
	assert.Equal(t, "_posts/broken.md", path)
}

func TestLoader_CanceledContext(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "a.md", "x\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Loader{}).Load(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}
