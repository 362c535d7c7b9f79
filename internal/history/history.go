// Package history supplies per-file revision facts (how many commits touched
// a file, and when the newest one was made) and derives last_modified_at
// from them.
package history

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

// TimestampLayout is the ISO-8601 UTC form written to last_modified_at.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Facts is what the history backend knows about one file.
type Facts struct {
	Revisions int
	Latest    time.Time
}

// Source looks up facts for a path relative to the site source root.
type Source interface {
	Facts(ctx context.Context, path string) (Facts, error)
}

// LastModified returns the formatted timestamp when the file has been
// revised after its first commit.
func LastModified(f Facts) (string, bool) {
	if f.Revisions <= 1 || f.Latest.IsZero() {
		return "", false
	}
	return f.Latest.UTC().Format(TimestampLayout), true
}

// Apply sets last_modified_at on a post. Lookup failures mean the fact is
// absent: the field is left unset and the error is only logged at debug level.
func Apply(ctx context.Context, doc *content.Document, src Source) (string, bool) {
	if src == nil || doc.Generated || doc.Collection != content.CollectionPosts {
		return "", false
	}
	facts, err := src.Facts(ctx, doc.Path)
	if err != nil {
		slog.Debug("Revision facts unavailable", logfields.Path(doc.Path), logfields.Error(err))
		return "", false
	}
	ts, ok := LastModified(facts)
	if !ok {
		return "", false
	}
	doc.Set(content.FieldLastModified, ts)
	return ts, true
}
