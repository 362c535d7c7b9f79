// Package showcase computes the pin-then-recency rank of documents and wires
// showcase listing pages to it: pagination descriptors, takeover pages for
// collection documents and their permalink rewrite.
package showcase

import (
	"slices"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/content"
)

// DefaultPinWeight exceeds any epoch-seconds value a post date can produce.
const DefaultPinWeight int64 = 10_000_000_000_000

// RankOptions selects which documents get a rank and how it is computed.
type RankOptions struct {
	Collections []string
	PinField    string
	DateFields  []string
	PinWeight   int64
	Field       string // front matter key the rank is stored under
}

// DefaultRankOptions ranks posts by pin and date into "rank".
func DefaultRankOptions() RankOptions {
	return RankOptions{
		Collections: []string{content.CollectionPosts},
		PinField:    content.FieldPin,
		DateFields:  []string{content.FieldDate},
		PinWeight:   DefaultPinWeight,
		Field:       "rank",
	}
}

// Rank returns (pinned ? PinWeight : 0) + epoch seconds of the rank date.
func Rank(doc *content.Document, opts RankOptions) int64 {
	var rank int64
	if doc.Pinned(opts.PinField) {
		rank = opts.PinWeight
	}
	return rank + rankTime(doc, opts.DateFields).Unix()
}

// rankTime tries each date field in order, then the file name date, then the epoch.
func rankTime(doc *content.Document, fields []string) time.Time {
	for _, f := range fields {
		if t, ok := content.ParseTime(doc.FrontMatter[f]); ok {
			return t
		}
	}
	if t, ok := doc.FilenameDate(); ok {
		return t
	}
	return time.Unix(0, 0).UTC()
}

// Applies reports whether doc belongs to a ranked collection.
func (o RankOptions) Applies(doc *content.Document) bool {
	return !doc.Generated && slices.Contains(o.Collections, doc.Collection)
}

// ApplyRank stores the rank under opts.Field for documents in scope.
func ApplyRank(doc *content.Document, opts RankOptions) (int64, bool) {
	if !opts.Applies(doc) {
		return 0, false
	}
	rank := Rank(doc, opts)
	doc.Set(opts.Field, rank)
	return rank, true
}
