package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by Load.
const (
	EnvPrefix     = "CLASSWATCH_"
	EnvConfigPath = "CLASSWATCH_CONFIG"
)

// sliceKeys are flat keys that arrive as comma-separated strings from env.
var sliceKeys = []string{"categories"} //nolint:gochecknoglobals // fixed key list

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if CLASSWATCH_CONFIG is set
//  3. env (prefix CLASSWATCH_)
func Load(ctx context.Context) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(New(ctx), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("%w: defaults: %w", ErrLoadConfig, err)
	}

	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// CLASSWATCH_QUEUE_SIZE -> queue_size (flat keys)
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	if err := splitSliceKeys(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitSliceKeys turns "a, b" env values into string slices.
func splitSliceKeys(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(key, values); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrLoadConfig, key, err)
		}
	}
	return nil
}

// Validate checks field constraints, the time zone and catalog bands.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	for category, rules := range c.RecommendationCatalog {
		for i, r := range rules {
			if r.MinScore > r.MaxScore {
				return fmt.Errorf("%w: recommendation_catalog[%s][%d]: min_score %.2f above max_score %.2f",
					ErrInvalidConfig, category, i, r.MinScore, r.MaxScore)
			}
			if r.Recommendation == "" {
				return fmt.Errorf("%w: recommendation_catalog[%s][%d]: empty recommendation",
					ErrInvalidConfig, category, i)
			}
		}
	}
	return nil
}
