package config

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/normalization"
	"git.home.luguber.info/inful/sitegraph/internal/slug"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

var slugModeNormalizer = func() *normalization.Normalizer[slug.Mode] {
	values := make(map[string]slug.Mode)
	for _, m := range slug.Modes() {
		values[string(m)] = m
	}
	return normalization.NewNormalizer(values, slug.ModeDefault)
}()

// SiteDefaultApplier handles source, destination and collection defaults.
type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if strings.TrimSpace(cfg.Source) == "" {
		cfg.Source = "."
	}
	if strings.TrimSpace(cfg.Destination) == "" {
		cfg.Destination = "_site"
	}
	if cfg.Defaults == nil {
		cfg.Defaults = map[string]map[string]any{"posts": {"layout": "post"}}
	}
	return nil
}

// SlugDefaultApplier normalizes the slug mode; unknown names become default.
type SlugDefaultApplier struct{}

func (SlugDefaultApplier) Domain() string { return "slug" }

func (SlugDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Slug.Mode = slugModeNormalizer.Normalize(string(cfg.Slug.Mode))
	return nil
}

// ShowcaseDefaultApplier handles pagination defaults.
type ShowcaseDefaultApplier struct{}

func (ShowcaseDefaultApplier) Domain() string { return "showcase" }

func (ShowcaseDefaultApplier) ApplyDefaults(cfg *Config) error {
	p := &cfg.Showcase.Pagination
	if p.PerPage <= 0 {
		p.PerPage = 12
	}
	p.TitleTemplate = strings.TrimSpace(p.TitleTemplate)
	if p.TitleTemplate == "" {
		p.TitleTemplate = ":title"
	}
	return nil
}

// RankDefaultApplier handles sort key defaults.
type RankDefaultApplier struct{}

func (RankDefaultApplier) Domain() string { return "rank" }

func (RankDefaultApplier) ApplyDefaults(cfg *Config) error {
	r := &cfg.Rank
	if len(r.Collections) == 0 {
		r.Collections = []string{"posts"}
	}
	if strings.TrimSpace(r.PinField) == "" {
		r.PinField = "pin"
	}
	if len(r.DateFields) == 0 {
		r.DateFields = []string{"date"}
	}
	if r.PinWeight <= 0 {
		r.PinWeight = DefaultPinWeight
	}
	if strings.TrimSpace(r.Field) == "" {
		r.Field = "rank"
	}
	return nil
}

// LoggingDefaultApplier normalizes logging enums and rotation limits.
type LoggingDefaultApplier struct{}

func (LoggingDefaultApplier) Domain() string { return "logging" }

func (LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	l := &cfg.Logging
	l.Level = NormalizeLogLevel(string(l.Level))
	l.Format = NormalizeLogFormat(string(l.Format))
	if l.File != "" && l.MaxSizeMB == 0 {
		l.MaxSizeMB = 10
	}
	return nil
}

// DefaultAppliers returns the appliers in the order they run.
func DefaultAppliers() []DefaultApplier {
	return []DefaultApplier{
		SiteDefaultApplier{},
		SlugDefaultApplier{},
		ShowcaseDefaultApplier{},
		RankDefaultApplier{},
		LoggingDefaultApplier{},
	}
}

func applyDefaults(cfg *Config) error {
	for _, applier := range DefaultAppliers() {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("apply %s defaults: %w", applier.Domain(), err)
		}
	}
	return nil
}

// Default returns a fully defaulted configuration, as if loaded from an empty file.
func Default() *Config {
	cfg := newConfig()
	_ = applyDefaults(cfg)
	return cfg
}
