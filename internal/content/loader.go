package content

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/frontmatter"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

// Underscore directories that hold site machinery rather than a collection.
var reservedDirs = map[string]bool{
	"_site":     true,
	"_layouts":  true,
	"_includes": true,
	"_data":     true,
	"_sass":     true,
	"_plugins":  true,
	"_drafts":   true,
}

var markdownExts = map[string]bool{".md": true, ".markdown": true}

// Loader reads documents from a source tree.
type Loader struct {
	// Destination is skipped when it lives inside the source tree.
	Destination string
	// Exclude holds path.Match globs tested against slash-separated relative paths.
	Exclude []string
	// Defaults maps a collection name to front matter applied where a key is absent.
	Defaults map[string]map[string]any
}

// Load walks root and returns the documents sorted by path.
//
// Markdown files are always loaded; HTML files only when they carry front
// matter, matching how Jekyll separates pages from static files.
func (l *Loader) Load(ctx context.Context, root string) ([]*Document, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "resolve source root").WithContext("path", root).Build()
	}
	absDest := ""
	if l.Destination != "" {
		if absDest, err = filepath.Abs(l.Destination); err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "resolve destination").WithContext("path", l.Destination).Build()
		}
	}

	var docs []*Document
	walkErr := filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p == absRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if l.skipDir(rel, d.Name(), p, absDest) {
				return filepath.SkipDir
			}
			return nil
		}
		if l.excluded(rel) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(rel))
		if !markdownExts[ext] && ext != ".html" {
			return nil
		}

		doc, err := l.loadFile(p, rel)
		if err != nil {
			return err
		}
		if ext == ".html" && !doc.HadFrontMatter {
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		if _, ok := errors.AsClassified(walkErr); ok {
			return nil, walkErr
		}
		return nil, errors.WrapError(walkErr, errors.CategoryFileSystem, "walk source tree").Fatal().WithContext("path", root).Build()
	}

	slices.SortFunc(docs, func(a, b *Document) int { return strings.Compare(a.Path, b.Path) })
	slog.Debug("Loaded source documents", logfields.Path(root), logfields.Count(len(docs)))
	return docs, nil
}

func (l *Loader) skipDir(rel, name, abs, absDest string) bool {
	if strings.HasPrefix(name, ".") || (reservedDirs[name] && !strings.Contains(rel, "/")) {
		return true
	}
	if absDest != "" && abs == absDest {
		return true
	}
	return l.excluded(rel)
}

func (l *Loader) excluded(rel string) bool {
	for _, pattern := range l.Exclude {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, path.Base(rel)); ok {
			return true
		}
	}
	return false
}

func (l *Loader) loadFile(abs, rel string) (*Document, error) {
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read source file").Fatal().WithContext("path", rel).Build()
	}

	block, err := frontmatter.Split(data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryContent, "split front matter").Fatal().WithContext("path", rel).Build()
	}

	doc := New(rel, CollectionFor(rel))
	doc.Content = string(block.Body)
	doc.HadFrontMatter = block.Present
	if block.Present {
		fields, err := frontmatter.Parse(block.Raw)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryContent, "parse front matter").Fatal().WithContext("path", rel).Build()
		}
		if fields != nil {
			doc.FrontMatter = fields
		}
	}
	doc.SnapshotFrontMatter()

	for k, v := range l.Defaults[doc.Collection] {
		if _, set := doc.FrontMatter[k]; !set {
			doc.FrontMatter[k] = cloneValue(v)
		}
	}
	return doc, nil
}

// CollectionFor derives the collection from a relative source path:
// _posts/** is posts, _<name>/** is <name>, anything else is pages.
func CollectionFor(rel string) string {
	first, _, nested := strings.Cut(rel, "/")
	if !nested || !strings.HasPrefix(first, "_") || len(first) == 1 {
		return CollectionPages
	}
	return strings.TrimPrefix(first, "_")
}
