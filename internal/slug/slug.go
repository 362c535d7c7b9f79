// Package slug maps arbitrary text to URL-safe path tokens.
//
// The mode selects which characters survive:
//
//	none           trim and lowercase only, nothing is replaced
//	raw            runs of whitespace become "-"
//	default        runs of anything that is not a letter, mark or decimal digit become "-"
//	pretty         like default, but also keeps ._~!$&'()+,;=@
//	ascii          runs of anything outside [A-Za-z0-9] become "-"
//	latin          accents are dropped first, then ascii rules apply
//	transliterate  every script is transliterated to ASCII (gosimple/slug)
//
// Every mode except none collapses repeated hyphens and strips leading and
// trailing hyphens. Output is always lowercase and Slugify is idempotent for
// a fixed mode.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	gosimple "github.com/gosimple/slug"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mode names a slug normalization strategy.
type Mode string

const (
	ModeNone          Mode = "none"
	ModeRaw           Mode = "raw"
	ModeDefault       Mode = "default"
	ModePretty        Mode = "pretty"
	ModeASCII         Mode = "ascii"
	ModeLatin         Mode = "latin"
	ModeTransliterate Mode = "transliterate"
)

var allModes = []Mode{ModeNone, ModeRaw, ModeDefault, ModePretty, ModeASCII, ModeLatin, ModeTransliterate}

var (
	rawReplace     = regexp.MustCompile(`\s+`)
	defaultReplace = regexp.MustCompile(`[^\p{M}\p{L}\p{Nd}]+`)
	prettyReplace  = regexp.MustCompile(`[^\p{M}\p{L}\p{Nd}._~!$&'()+,;=@]+`)
	asciiReplace   = regexp.MustCompile(`[^A-Za-z0-9]+`)
	hyphenRuns     = regexp.MustCompile(`-{2,}`)
)

// Modes returns every supported mode in documentation order.
func Modes() []Mode {
	out := make([]Mode, len(allModes))
	copy(out, allModes)
	return out
}

// ParseMode resolves a mode name case-insensitively.
func ParseMode(raw string) (Mode, error) {
	cleaned := Mode(strings.ToLower(strings.TrimSpace(raw)))
	for _, m := range allModes {
		if m == cleaned {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid slug mode %q, valid options: %v", raw, allModes)
}

// Slugify converts text into a lowercase, hyphen-delimited token.
// Empty input, or input with no valid characters for the mode, yields "".
func Slugify(text string, mode Mode) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}

	switch mode {
	case ModeNone:
		return strings.ToLower(s)
	case ModeRaw:
		s = rawReplace.ReplaceAllString(s, "-")
	case ModePretty:
		s = prettyReplace.ReplaceAllString(s, "-")
	case ModeASCII:
		s = asciiReplace.ReplaceAllString(s, "-")
	case ModeLatin:
		s = asciiReplace.ReplaceAllString(stripMarks(s), "-")
	case ModeTransliterate:
		s = gosimple.Make(s)
	default:
		s = defaultReplace.ReplaceAllString(s, "-")
	}

	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return strings.ToLower(s)
}

// stripMarks decomposes accented characters and drops the combining marks.
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
