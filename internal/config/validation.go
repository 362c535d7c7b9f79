package config

import (
	stderrors "errors"
	"fmt"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return errors.ValidationError(fmt.Sprintf("invalid configuration: %s failed %q", first.Namespace(), first.Tag())).
				WithCause(err).
				WithContext("field", first.Namespace()).
				Build()
		}
		return errors.WrapError(err, errors.CategoryValidation, "invalid configuration").Fatal().Build()
	}

	for _, pattern := range c.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return errors.ValidationError(fmt.Sprintf("invalid exclude pattern %q", pattern)).WithCause(err).Build()
		}
	}

	seen := make(map[string]string)
	groups := map[string][]string{
		"both":         c.TailComponents.Both,
		"nav_only":     c.TailComponents.NavOnly,
		"related_only": c.TailComponents.RelatedOnly,
		"none":         c.TailComponents.None,
	}
	for _, name := range []string{"both", "nav_only", "related_only", "none"} {
		for _, g := range groups[name] {
			key := strings.ToLower(strings.TrimSpace(g))
			if prev, dup := seen[key]; dup && prev != name {
				return errors.ValidationError(fmt.Sprintf("tail component group %q listed in both %s and %s", g, prev, name)).Build()
			}
			seen[key] = name
		}
	}
	return nil
}
