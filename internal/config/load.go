package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// Load reads configuration from configPath. An empty path falls back to
// DefaultFile in the working directory and, when that is absent too, to Default().
//
// Before parsing, .env and .env.local next to the config file are loaded into
// the process environment (existing variables win) and ${VAR} references in
// the file are expanded.
func Load(configPath string) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultFile
	}

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err) && !explicit:
		cfg := Default()
		return cfg, cfg.Validate()
	case os.IsNotExist(err):
		return nil, errors.ConfigError("configuration file not found").WithContext("path", configPath).Build()
	case err != nil:
		return nil, errors.WrapError(err, errors.CategoryConfig, "read configuration file").
			Fatal().WithContext("path", configPath).Build()
	}

	loadEnvFiles(filepath.Dir(configPath))
	return Parse(data)
}

// Parse decodes YAML config bytes, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := newConfig()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "parse configuration").Fatal().Build()
	}
	if err := applyDefaults(cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "apply configuration defaults").Fatal().Build()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFiles(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		_ = godotenv.Load(p)
	}
}
