package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SFM_CONFIG is set
//  3. env (prefix SFM_)
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SFM_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SFM_ADDR, SFM_K_FACTOR, ...
	// Map env keys like SFM_MAX_ROSTER_SIZE -> max_roster_size (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SFM_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "sfm_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.KFactor <= 0:
		return fmt.Errorf("%w: k_factor must be positive", ErrInvalidConfig)
	case c.GDMultiplierCap < 1:
		return fmt.Errorf("%w: gd_multiplier_cap must be at least 1", ErrInvalidConfig)
	case c.HandicapPerPlayer < 0:
		return fmt.Errorf("%w: handicap_per_player must not be negative", ErrInvalidConfig)
	case c.MaxRosterSize < 2:
		return fmt.Errorf("%w: max_roster_size must be at least 2", ErrInvalidConfig)
	case c.ShuffleMargin < 0:
		return fmt.Errorf("%w: shuffle_margin must not be negative", ErrInvalidConfig)
	}
	for name, weight := range c.TagWeights {
		if weight < 0 {
			return fmt.Errorf("%w: tag weight %q must not be negative", ErrInvalidConfig, name)
		}
	}
	return nil
}
