// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"github.com/ferologics/sunday-football-manager/internal/domain/model"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DefaultRating is assigned to newly created players.
	DefaultRating float64 `koanf:"default_rating"`

	// KFactor is the Elo K factor applied to every match.
	KFactor float64 `koanf:"k_factor"`

	// HandicapPerPlayer is the rating credit per player-equivalent of
	// effective-strength shortfall.
	HandicapPerPlayer float64 `koanf:"handicap_per_player"`

	// GDMultiplierCap bounds the goal-difference multiplier.
	GDMultiplierCap float64 `koanf:"gd_multiplier_cap"`

	// MaxRosterSize caps how many players a single balancing request may
	// carry. The search is exact brute force; this bound keeps it cheap.
	MaxRosterSize int `koanf:"max_roster_size"`

	// ShuffleMargin is the relative cost margin for randomized re-splits.
	ShuffleMargin float64 `koanf:"shuffle_margin"`

	// TagWeights maps tag names to their balancing weights.
	TagWeights map[string]float64 `koanf:"tag_weights"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		DefaultRating:     model.DefaultRating,
		KFactor:           model.KFactor,
		HandicapPerPlayer: model.HandicapPerPlayer,
		GDMultiplierCap:   model.GDMultiplierCap,
		MaxRosterSize:     model.MaxRosterSize,
		ShuffleMargin:     0.1,
		TagWeights: map[string]float64{
			string(model.TagPlaymaker): 50,
			string(model.TagRunner):    40,
			string(model.TagDef):       20,
			string(model.TagAtk):       10,
			string(model.TagGK):        0,
		},
	}
	return c
}

// Weights converts the configured tag map into the domain representation,
// dropping unknown tag names.
func (c *Config) Weights() model.TagWeights {
	w := make(model.TagWeights, len(c.TagWeights))
	for name, weight := range c.TagWeights {
		if tag, ok := model.ParseTag(name); ok {
			w[tag] = weight
		}
	}
	return w
}
