// Package site writes the processed content graph to the destination tree.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/inful/mdfp"
	"github.com/spf13/cast"

	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/frontmatter"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/manifest"
)

// UIDField holds the stable identifier of generated pages.
const UIDField = "uid"

// uidNamespace scopes generated page identifiers to this tool.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sitegraph"))

// Writer emits published documents below Destination.
type Writer struct {
	Destination string
	RankField   string
}

// NewWriter creates a writer for dest. rankField names the front matter key
// copied into manifest entries; empty means "rank".
func NewWriter(dest, rankField string) *Writer {
	if rankField == "" {
		rankField = "rank"
	}
	return &Writer{Destination: dest, RankField: rankField}
}

// Write emits every published document and returns one manifest entry per
// written file, in input order. Two documents resolving to the same output
// path are a content error.
func (w *Writer) Write(ctx context.Context, docs []*content.Document) ([]manifest.Entry, error) {
	entries := make([]manifest.Entry, 0, len(docs))
	owners := make(map[string]string, len(docs))

	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if !doc.Published() {
			continue
		}

		rel := OutputPath(doc)
		if prev, ok := owners[rel]; ok {
			return nil, errors.ContentError("output path collision").
				WithContext("output", rel).
				WithContext("path", doc.Path).
				WithContext("other", prev).
				Build()
		}
		owners[rel] = doc.Path

		entry, err := w.writeOne(doc, rel)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	slog.Info("Wrote content tree", logfields.Path(w.Destination), logfields.Count(len(entries)))
	return entries, nil
}

func (w *Writer) writeOne(doc *content.Document, rel string) (manifest.Entry, error) {
	fields := content.CloneMap(doc.FrontMatter)
	entry := manifest.Entry{
		Path:       doc.Path,
		Output:     rel,
		Collection: doc.Collection,
		Permalink:  PermalinkOf(doc),
		Title:      doc.Title(),
		Generated:  doc.Generated,
	}

	if doc.Generated {
		entry.UID = PageUID(entry.Permalink)
		fields[UIDField] = entry.UID
	}
	fp, err := Fingerprint(fields, doc.Content)
	if err != nil {
		return manifest.Entry{}, errors.WrapError(err, errors.CategoryContent, "fingerprint document").
			WithContext("path", doc.Path).
			Build()
	}
	fields[mdfp.FingerprintField] = fp
	entry.Fingerprint = fp

	if v, ok := doc.Get(w.RankField); ok {
		if rank, err := cast.ToInt64E(v); err == nil {
			entry.Rank = &rank
		}
	}
	if v, ok := doc.Get(content.FieldTailIncludes); ok {
		entry.TailIncludes = cast.ToStringSlice(v)
	}
	if v, ok := doc.Get("posts"); ok && doc.Generated {
		entry.Posts = cast.ToStringSlice(v)
		if entry.Posts == nil {
			entry.Posts = []string{}
		}
	}

	out, err := frontmatter.Assemble(fields, []byte(doc.Content), "\n")
	if err != nil {
		return manifest.Entry{}, errors.WrapError(err, errors.CategoryContent, "serialize front matter").
			WithContext("path", doc.Path).
			Build()
	}

	target := filepath.Join(w.Destination, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return manifest.Entry{}, errors.WrapError(err, errors.CategoryFileSystem, "create output directory").
			WithContext("path", target).
			Build()
	}
	// #nosec G306 -- content files are published
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return manifest.Entry{}, errors.WrapError(err, errors.CategoryFileSystem, "write document").
			WithContext("path", target).
			Build()
	}

	slog.Debug("Wrote document",
		logfields.Path(doc.Path),
		logfields.Permalink(entry.Permalink),
		slog.Int("bytes", len(out)),
		slog.Bool("generated", doc.Generated))
	return entry, nil
}

// PermalinkOf is the document's permalink, or a directory URL derived from
// its source path ("about.md" -> "/about/", "docs/index.md" -> "/docs/").
func PermalinkOf(doc *content.Document) string {
	if p := doc.Permalink(); p != "" {
		return p
	}
	p := strings.TrimSuffix(doc.Path, path.Ext(doc.Path))
	if path.Base(p) == "index" {
		p = path.Dir(p)
	}
	if p == "." || p == "" {
		return "/"
	}
	return "/" + strings.Trim(p, "/") + "/"
}

// OutputPath maps a document to a slash-separated path relative to the
// destination. Directory permalinks get index.md; a permalink with a file
// extension and no trailing slash is written as-is. The result never escapes the destination.
func OutputPath(doc *content.Document) string {
	link := PermalinkOf(doc)
	clean := path.Clean("/" + link)
	if !strings.HasSuffix(link, "/") && path.Ext(clean) != "" {
		return strings.TrimPrefix(clean, "/")
	}
	return strings.TrimPrefix(path.Join(clean, "index.md"), "/")
}

// PageUID is a name-based UUID, so a generated page keeps its identifier
// across builds as long as its permalink does.
func PageUID(permalink string) string {
	return uuid.NewSHA1(uidNamespace, []byte(permalink)).String()
}

// Fingerprint hashes the serialized front matter (without fingerprint, uid
// and last_modified_at) together with the body.
func Fingerprint(fields map[string]any, body string) (string, error) {
	forHash := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case mdfp.FingerprintField, UIDField, content.FieldLastModified:
			continue
		}
		forHash[k] = v
	}

	serialized := ""
	if len(forHash) > 0 {
		raw, err := frontmatter.Serialize(forHash, "\n")
		if err != nil {
			return "", fmt.Errorf("serialize for fingerprint: %w", err)
		}
		serialized = strings.TrimSuffix(string(raw), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(serialized, body), nil
}
