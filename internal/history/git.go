package history

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// GitSource reads revision facts from the repository enclosing the source root.
type GitSource struct {
	repo   *git.Repository
	head   plumbing.Hash
	prefix string // source root relative to the worktree root, slash separated
}

// OpenGitSource opens the repository that contains sourceRoot, searching
// parent directories for .git.
func OpenGitSource(sourceRoot string) (*GitSource, error) {
	abs, err := filepath.Abs(sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve source root: %w", err)
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "open repository").
			Warning().WithContext("path", sourceRoot).Build()
	}

	ref, err := repo.Head()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "resolve HEAD").
			Warning().WithContext("path", sourceRoot).Build()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "open worktree").Warning().Build()
	}
	prefix, err := relativeTo(wt.Filesystem.Root(), abs)
	if err != nil {
		return nil, err
	}

	return &GitSource{repo: repo, head: ref.Hash(), prefix: prefix}, nil
}

func relativeTo(root, dir string) (string, error) {
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	if d, err := filepath.EvalSymlinks(dir); err == nil {
		dir = d
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", fmt.Errorf("source root outside worktree: %w", err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "", nil
	}
	if strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("source root %s outside worktree %s", dir, root)
	}
	return rel, nil
}

// Head is the commit the facts are read from.
func (g *GitSource) Head() string { return g.head.String() }

// Facts walks the log from HEAD restricted to the file and reports the
// number of commits and the newest committer time.
func (g *GitSource) Facts(ctx context.Context, rel string) (Facts, error) {
	fileName := path.Join(g.prefix, rel)
	iter, err := g.repo.Log(&git.LogOptions{From: g.head, FileName: &fileName})
	if err != nil {
		return Facts{}, fmt.Errorf("log %s: %w", fileName, err)
	}
	defer iter.Close()

	var facts Facts
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		facts.Revisions++
		if when := c.Committer.When; when.After(facts.Latest) {
			facts.Latest = when
		}
		return nil
	})
	if err != nil {
		return Facts{}, fmt.Errorf("walk log for %s: %w", fileName, err)
	}
	return facts, nil
}
