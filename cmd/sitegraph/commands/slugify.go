package commands

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/slug"
)

// SlugifyCmd implements the 'slugify' command.
type SlugifyCmd struct {
	Text []string `arg:"" help:"Text to slugify (joined with spaces)"`
	Mode string   `short:"m" default:"default" help:"Slug mode: none, raw, default, pretty, ascii, latin, transliterate"`
	All  bool     `help:"Print the slug for every mode"`
}

func (s *SlugifyCmd) Run(g *Global) error {
	text := strings.Join(s.Text, " ")
	if s.All {
		for _, m := range slug.Modes() {
			_, _ = fmt.Fprintf(g.Stdout, "%-14s %s\n", m, slug.Slugify(text, m))
		}
		return nil
	}

	mode, err := slug.ParseMode(s.Mode)
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid slug mode").
			WithContext("mode", s.Mode).
			Build()
	}
	_, _ = fmt.Fprintln(g.Stdout, slug.Slugify(text, mode))
	return nil
}
