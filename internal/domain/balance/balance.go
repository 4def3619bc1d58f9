// Package balance splits a match-day roster into two balanced teams.
//
// The search is an exact brute force over every way to fill team A from the
// field players. Rosters are capped at 14 by the caller, so the worst case
// is C(14, 7) = 3432 candidates; exhaustive enumeration is both simplest
// and provably optimal at that scale.
package balance

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/ferologics/sunday-football-manager/internal/domain/model"
)

// Shuffle slack added on top of the relative margin so zero-cost optima
// still leave room for alternatives.
const (
	defaultShuffleMargin = 0.1
	shuffleSlack         = 1.0
)

// Splitter partitions a roster into two teams.
type Splitter interface {
	// Split returns the minimum-cost partition of roster.
	Split(ctx context.Context, roster []model.Player) (model.TeamSplit, error)

	// Shuffle returns a uniformly random partition among those whose cost
	// is within the configured margin of the optimum.
	Shuffle(ctx context.Context, roster []model.Player) (model.TeamSplit, error)
}

// BruteForce implements Splitter by exhaustive enumeration.
type BruteForce struct {
	weights       model.TagWeights
	rng           *rand.Rand
	shuffleMargin float64
}

// NewBruteForce creates a splitter with configuration options.
func NewBruteForce(opts ...Option) *BruteForce {
	b := &BruteForce{
		weights:       model.DefaultTagWeights(),
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // not used for security
		shuffleMargin: defaultShuffleMargin,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Split returns the minimum-cost partition. Ties go to the first candidate
// in enumeration order, so the result is deterministic for rosters with
// zero or two goalkeepers.
func (b *BruteForce) Split(ctx context.Context, roster []model.Player) (model.TeamSplit, error) {
	seedA, seedB, field, err := b.prepare(roster)
	if err != nil {
		return model.TeamSplit{}, err
	}

	best := model.TeamSplit{Cost: math.Inf(1)}
	err = b.enumerate(ctx, seedA, seedB, field, len(roster)/2, func(s model.TeamSplit) {
		if s.Cost < best.Cost {
			best = s
		}
	})
	if err != nil {
		return model.TeamSplit{}, err
	}
	return best, nil
}

// Shuffle returns a random near-optimal partition: any candidate whose cost
// is within margin of the best (plus a small absolute slack for zero-cost
// optima) may be returned, each with equal probability.
func (b *BruteForce) Shuffle(ctx context.Context, roster []model.Player) (model.TeamSplit, error) {
	seedA, seedB, field, err := b.prepare(roster)
	if err != nil {
		return model.TeamSplit{}, err
	}

	var all []model.TeamSplit
	best := math.Inf(1)
	err = b.enumerate(ctx, seedA, seedB, field, len(roster)/2, func(s model.TeamSplit) {
		if s.Cost < best {
			best = s.Cost
		}
		all = append(all, s)
	})
	if err != nil {
		return model.TeamSplit{}, err
	}

	threshold := best*(1+b.shuffleMargin) + shuffleSlack
	good := all[:0]
	for _, s := range all {
		if s.Cost <= threshold {
			good = append(good, s)
		}
	}
	return good[b.rng.Intn(len(good))], nil
}

// prepare validates the roster and applies the goalkeeper policy. It
// returns the forced contingents of each team and the remaining field
// players to enumerate over.
func (b *BruteForce) prepare(roster []model.Player) (seedA, seedB, field []model.Player, err error) {
	if len(roster) < 2 {
		return nil, nil, nil, fmt.Errorf("roster of %d: %w", len(roster), ErrInsufficientPlayers)
	}
	seen := make(map[string]struct{}, len(roster))
	for _, p := range roster {
		if _, dup := seen[p.ID]; dup {
			return nil, nil, nil, fmt.Errorf("player %q: %w", p.ID, ErrMalformedRoster)
		}
		seen[p.ID] = struct{}{}
	}

	var gks []model.Player
	for _, p := range roster {
		if p.HasTag(model.TagGK) {
			gks = append(gks, p)
		} else {
			field = append(field, p)
		}
	}

	switch {
	case len(gks) >= 2:
		// Hard constraint: exactly one of the first two GKs per team.
		// Any further GKs are treated as field players.
		seedA = []model.Player{gks[0]}
		seedB = []model.Player{gks[1]}
		field = append(field, gks[2:]...)
	case len(gks) == 1:
		// Single GK lands on a uniformly random side; the asymmetry is
		// situational noise, not corrected for.
		if b.rng.Intn(2) == 0 {
			seedA = gks
		} else {
			seedB = gks
		}
	}
	return seedA, seedB, field, nil
}

// enumerate visits every candidate split once, in a fixed order. Team A is
// filled to teamSize (the floor half of the roster); team B takes the rest.
func (b *BruteForce) enumerate(ctx context.Context, seedA, seedB, field []model.Player, teamSize int, visit func(model.TeamSplit)) error {
	pick := teamSize - len(seedA)

	// Combination indices into field, advanced odometer-style.
	idx := make([]int, pick)
	for i := range idx {
		idx[i] = i
	}

	inA := make([]bool, len(field))
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("enumeration cancelled: %w", err)
		}

		for i := range inA {
			inA[i] = false
		}
		teamA := append([]model.Player(nil), seedA...)
		for _, i := range idx {
			inA[i] = true
			teamA = append(teamA, field[i])
		}
		teamB := append([]model.Player(nil), seedB...)
		for i, p := range field {
			if !inA[i] {
				teamB = append(teamB, p)
			}
		}
		visit(b.evaluate(teamA, teamB))

		if !nextCombination(idx, len(field)) {
			return nil
		}
	}
}

// evaluate computes the fairness cost of one candidate split.
func (b *BruteForce) evaluate(teamA, teamB []model.Player) model.TeamSplit {
	ratingDiff := math.Abs(averageRating(teamA) - averageRating(teamB))

	var tagA, tagB float64
	for _, p := range teamA {
		tagA += p.TagValue(b.weights)
	}
	for _, p := range teamB {
		tagB += p.TagValue(b.weights)
	}

	return model.TeamSplit{
		TeamA:      teamA,
		TeamB:      teamB,
		Cost:       ratingDiff + math.Abs(tagA-tagB),
		RatingDiff: ratingDiff,
		TagValueA:  tagA,
		TagValueB:  tagB,
	}
}

// nextCombination advances idx to the next k-combination of [0, n).
// Returns false once the last combination has been visited.
func nextCombination(idx []int, n int) bool {
	k := len(idx)
	if k == 0 {
		return false
	}
	for i := k - 1; i >= 0; i-- {
		if idx[i] < n-k+i {
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
			return true
		}
	}
	return false
}

func averageRating(team []model.Player) float64 {
	if len(team) == 0 {
		return 0
	}
	var sum float64
	for _, p := range team {
		sum += p.Rating
	}
	return sum / float64(len(team))
}
