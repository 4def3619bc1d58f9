// Package rating computes Elo-style rating changes from match results.
//
// The engine is pure: it receives a completed match with pre-match ratings
// and returns per-player deltas. It has no guest concept; callers exclude
// unrated participants before persisting the output.
package rating

import (
	"context"
	"fmt"
	"math"

	"github.com/ferologics/sunday-football-manager/internal/domain/model"
)

const logisticBase = 400.0

// Engine computes rating changes. Stateless and safe for concurrent use.
type Engine struct {
	k                 float64
	handicapPerPlayer float64
	gdCap             float64
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		k:                 model.KFactor,
		handicapPerPlayer: model.HandicapPerPlayer,
		gdCap:             model.GDMultiplierCap,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ExpectedScore is the standard logistic Elo expectation for a side rated
// ratingA against a side rated ratingB.
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/logisticBase))
}

// GoalDiffMultiplier scales the rating change by the margin of victory.
// One-goal margins (and draws) carry no amplification; each further goal
// adds half, up to the configured cap.
func (e *Engine) GoalDiffMultiplier(goalDiff int) float64 {
	if goalDiff <= 1 {
		return 1.0
	}
	return math.Min(1.0+float64(goalDiff-1)*0.5, e.gdCap)
}

// ApplyResult computes rating changes for every participant of match.
// Validation is fail-fast: no deltas are produced if any input is bad.
func (e *Engine) ApplyResult(ctx context.Context, match model.MatchResult) (map[string]model.RatingChange, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rating cancelled: %w", err)
	}
	if err := validate(match); err != nil {
		return nil, err
	}

	avgA := averageRating(match.TeamA)
	avgB := averageRating(match.TeamB)
	effA := effectiveStrength(match.TeamA)
	effB := effectiveStrength(match.TeamB)

	// A side fielding fewer effective players has its rating discounted
	// before the expectation is computed, so holding the stronger lineup
	// to a draw counts as a result above expectation.
	adjDiffA := (avgB - avgA) + e.handicapPerPlayer*(effB-effA)
	expectedA := 1.0 / (1.0 + math.Pow(10, adjDiffA/logisticBase))
	expectedB := 1.0 / (1.0 + math.Pow(10, -adjDiffA/logisticBase))

	outcomeA, outcomeB := outcomes(match.ScoreA, match.ScoreB)
	multiplier := e.GoalDiffMultiplier(abs(match.ScoreA - match.ScoreB))

	teamDeltaA := e.k * multiplier * (outcomeA - expectedA)
	teamDeltaB := e.k * multiplier * (outcomeB - expectedB)

	changes := make(map[string]model.RatingChange, len(match.TeamA)+len(match.TeamB))
	for _, p := range match.TeamA {
		changes[p.PlayerID] = change(p, teamDeltaA)
	}
	for _, p := range match.TeamB {
		changes[p.PlayerID] = change(p, teamDeltaB)
	}
	return changes, nil
}

// change scales the team delta by the player's share of the match. Half a
// match earns half the swing, in either direction.
func change(p model.Participation, teamDelta float64) model.RatingChange {
	return model.RatingChange{
		Before:   p.PreRating,
		Delta:    teamDelta * p.Fraction,
		Fraction: p.Fraction,
	}
}

func validate(match model.MatchResult) error {
	if len(match.TeamA) == 0 || len(match.TeamB) == 0 {
		return ErrEmptyTeam
	}
	if match.ScoreA < 0 || match.ScoreB < 0 {
		return fmt.Errorf("%d-%d: %w", match.ScoreA, match.ScoreB, ErrNegativeScore)
	}
	seen := make(map[string]struct{}, len(match.TeamA)+len(match.TeamB))
	for _, team := range [][]model.Participation{match.TeamA, match.TeamB} {
		for _, p := range team {
			if !model.ValidFraction(p.Fraction) {
				return fmt.Errorf("player %q fraction %v: %w", p.PlayerID, p.Fraction, ErrInvalidParticipation)
			}
			if _, dup := seen[p.PlayerID]; dup {
				return fmt.Errorf("player %q: %w", p.PlayerID, ErrMalformedMatch)
			}
			seen[p.PlayerID] = struct{}{}
		}
	}
	return nil
}

func outcomes(scoreA, scoreB int) (outcomeA, outcomeB float64) {
	switch {
	case scoreA > scoreB:
		return 1.0, 0.0
	case scoreA < scoreB:
		return 0.0, 1.0
	}
	return 0.5, 0.5
}

func averageRating(team []model.Participation) float64 {
	var sum float64
	for _, p := range team {
		sum += p.PreRating
	}
	return sum / float64(len(team))
}

// effectiveStrength is the team's size in player-equivalents: the sum of
// participation fractions across its roster.
func effectiveStrength(team []model.Participation) float64 {
	var sum float64
	for _, p := range team {
		sum += p.Fraction
	}
	return sum
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
