// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Rating and balancing constants shared across the core.
const (
	DefaultRating     = 1200.0
	KFactor           = 32.0
	GDMultiplierCap   = 2.5
	HandicapPerPlayer = 100.0
	MaxRosterSize     = 14
	MaxPerTeam        = MaxRosterSize / 2
)

// Tag labels a player's style. Tags bias team composition only; they never
// gate gameplay.
type Tag string

// The closed tag enumeration.
const (
	TagPlaymaker Tag = "PLAYMAKER"
	TagRunner    Tag = "RUNNER"
	TagDef       Tag = "DEF"
	TagAtk       Tag = "ATK"
	TagGK        Tag = "GK"
)

// Tags lists every known tag in display order.
func Tags() []Tag {
	return []Tag{TagPlaymaker, TagRunner, TagDef, TagAtk, TagGK}
}

// ParseTag normalizes s into a known Tag. Returns false for unknown labels.
func ParseTag(s string) (Tag, bool) {
	t := Tag(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TagPlaymaker, TagRunner, TagDef, TagAtk, TagGK:
		return t, true
	}
	return "", false
}

// TagWeights maps each tag to its non-negative balancing weight.
type TagWeights map[Tag]float64

// DefaultTagWeights returns the stock weighting. GK carries no weight; its
// placement is handled as a constraint, not a cost term.
func DefaultTagWeights() TagWeights {
	return TagWeights{
		TagPlaymaker: 50,
		TagRunner:    40,
		TagDef:       20,
		TagAtk:       10,
		TagGK:        0,
	}
}

// Player is a rated roster member.
type Player struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Rating        float64   `json:"rating"`
	Tags          []Tag     `json:"tags"`
	Guest         bool      `json:"guest,omitempty"`
	MatchesPlayed int       `json:"matches_played"`
	CreatedAt     time.Time `json:"created_at"`
}

// HasTag reports whether the player carries t.
func (p Player) HasTag(t Tag) bool {
	for _, pt := range p.Tags {
		if pt == t {
			return true
		}
	}
	return false
}

// TagValue is the player's combined tag weight under w. A multi-tag "star"
// contributes their full combined weight to whichever team holds them.
func (p Player) TagValue(w TagWeights) float64 {
	var v float64
	for _, t := range p.Tags {
		v += w[t]
	}
	return v
}

// TeamSplit is a proposed partition of a roster into two teams, with the
// cost breakdown the search minimized. Ephemeral; never persisted.
type TeamSplit struct {
	TeamA      []Player `json:"team_a"`
	TeamB      []Player `json:"team_b"`
	Cost       float64  `json:"cost"`
	RatingDiff float64  `json:"rating_diff"`
	TagValueA  float64  `json:"tag_value_a"`
	TagValueB  float64  `json:"tag_value_b"`
}

// Allowed participation fractions. A player who did not show up at all is
// simply absent from the match record.
const (
	FractionFull          = 1.0
	FractionThreeQuarters = 0.75
	FractionHalf          = 0.5
	FractionQuarter       = 0.25
)

// ValidFraction reports whether f is one of the allowed participation steps.
func ValidFraction(f float64) bool {
	switch f {
	case FractionFull, FractionThreeQuarters, FractionHalf, FractionQuarter:
		return true
	}
	return false
}

// Participation records one player's share of a match on one team.
type Participation struct {
	PlayerID  string  `json:"player_id"`
	PreRating float64 `json:"pre_rating"`
	Fraction  float64 `json:"fraction"`
	Guest     bool    `json:"guest,omitempty"`
}

// MatchResult is a completed match handed to the rating engine.
type MatchResult struct {
	TeamA  []Participation `json:"team_a"`
	TeamB  []Participation `json:"team_b"`
	ScoreA int             `json:"score_a"`
	ScoreB int             `json:"score_b"`
}

// RatingChange is the engine's verdict for a single participant.
type RatingChange struct {
	Before   float64 `json:"before"`
	Delta    float64 `json:"delta"`
	Fraction float64 `json:"fraction"`
}

// After is the participant's rating once the delta is applied.
func (c RatingChange) After() float64 {
	return c.Before + c.Delta
}
