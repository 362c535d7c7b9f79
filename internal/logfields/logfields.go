package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyCollection = "collection"
	KeyPermalink  = "permalink"
	KeySlug       = "slug"
	KeyTop        = "top"
	KeyLevel1     = "level1"
	KeyLevel2     = "level2"
	KeyCount      = "count"
	KeyMode       = "mode"
	KeyCommit     = "commit"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Collection(c string) slog.Attr    { return slog.String(KeyCollection, c) }
func Permalink(p string) slog.Attr     { return slog.String(KeyPermalink, p) }
func Slug(s string) slog.Attr          { return slog.String(KeySlug, s) }
func Top(t string) slog.Attr           { return slog.String(KeyTop, t) }
func Level1(l string) slog.Attr        { return slog.String(KeyLevel1, l) }
func Level2(l string) slog.Attr        { return slog.String(KeyLevel2, l) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Mode(m string) slog.Attr          { return slog.String(KeyMode, m) }
func Commit(hash string) slog.Attr     { return slog.String(KeyCommit, hash) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
