// Package config loads and validates the sitegraph YAML configuration.
package config

import (
	"git.home.luguber.info/inful/sitegraph/internal/slug"
)

// DefaultFile is the configuration file looked up when no path is given.
const DefaultFile = "sitegraph.yml"

// DefaultPinWeight dominates any plausible epoch-seconds value.
const DefaultPinWeight int64 = 10_000_000_000_000

// Config is the root configuration document.
type Config struct {
	Source             string                    `yaml:"source" validate:"required"`
	Destination        string                    `yaml:"destination" validate:"required"`
	Exclude            []string                  `yaml:"exclude"`
	TopLevelCategories []string                  `yaml:"top_level_categories"`
	Defaults           map[string]map[string]any `yaml:"defaults"` // collection -> front matter defaults
	Slug               SlugConfig                `yaml:"slug"`
	TailComponents     TailComponentsConfig      `yaml:"tail_components"`
	Showcase           ShowcaseConfig            `yaml:"showcase"`
	Rank               RankConfig                `yaml:"rank"`
	LastModified       LastModifiedConfig        `yaml:"last_modified"`
	Logging            LoggingConfig             `yaml:"logging"`
	Metrics            MetricsConfig             `yaml:"metrics"`
}

// SlugConfig controls permalink normalization.
type SlugConfig struct {
	Mode        slug.Mode `yaml:"mode" validate:"oneof=none raw default pretty ascii latin transliterate"`
	PreferTitle bool      `yaml:"prefer_title"`
	Debug       bool      `yaml:"debug"`
}

// TailComponentsConfig lists top-level category groups per tail include set.
type TailComponentsConfig struct {
	Both        []string `yaml:"both"`
	NavOnly     []string `yaml:"nav_only"`
	RelatedOnly []string `yaml:"related_only"`
	None        []string `yaml:"none"`
}

// ShowcaseConfig controls takeover pages and pagination descriptors.
type ShowcaseConfig struct {
	Enabled    bool                     `yaml:"enabled"`
	Debug      bool                     `yaml:"debug"`
	Pagination ShowcasePaginationConfig `yaml:"pagination"`
}

type ShowcasePaginationConfig struct {
	PerPage       int    `yaml:"per_page" validate:"min=1"`
	SortReverse   bool   `yaml:"sort_reverse"`
	TitleTemplate string `yaml:"title_template" validate:"required"`
}

// RankConfig controls the pin-then-recency sort key.
type RankConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Debug       bool     `yaml:"debug"`
	Collections []string `yaml:"collections"`
	PinField    string   `yaml:"pin_field" validate:"required"`
	DateFields  []string `yaml:"date_fields"`
	PinWeight   int64    `yaml:"pin_weight" validate:"gt=0"`
	Field       string   `yaml:"field" validate:"required"`
}

// LastModifiedConfig controls revision history lookups.
type LastModifiedConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cache   string `yaml:"cache"` // SQLite file; empty disables caching
}

// LoggingConfig selects the slog handler and an optional rotated file sink.
type LoggingConfig struct {
	Level      LogLevel  `yaml:"level" validate:"oneof=debug info warn error"`
	Format     LogFormat `yaml:"format" validate:"oneof=text json"`
	File       string    `yaml:"file"`
	MaxSizeMB  int       `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int       `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int       `yaml:"max_age_days" validate:"gte=0"`
}

// MetricsConfig controls the Prometheus text exposition written after a build.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// newConfig returns a config with the boolean defaults that YAML cannot
// distinguish from an explicit false once decoded.
func newConfig() *Config {
	return &Config{
		Slug:         SlugConfig{PreferTitle: true},
		Showcase:     ShowcaseConfig{Enabled: true, Pagination: ShowcasePaginationConfig{SortReverse: true}},
		Rank:         RankConfig{Enabled: true},
		LastModified: LastModifiedConfig{Enabled: true},
	}
}
