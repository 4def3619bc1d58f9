package balance

import (
	"math/rand"

	"github.com/ferologics/sunday-football-manager/internal/domain/model"
)

// Option applies a configuration option to the BruteForce splitter.
type Option func(*BruteForce)

// WithTagWeights sets the tag weights used in the cost function. The map is
// copied to avoid external modification.
func WithTagWeights(weights model.TagWeights) Option {
	return func(b *BruteForce) {
		if len(weights) == 0 {
			return
		}
		b.weights = make(model.TagWeights, len(weights))
		for tag, w := range weights {
			if w >= 0 {
				b.weights[tag] = w
			}
		}
	}
}

// WithRand injects the randomness source used for the single-GK coin flip
// and for Shuffle. Tests pin this to a fixed seed.
func WithRand(rng *rand.Rand) Option {
	return func(b *BruteForce) {
		if rng != nil {
			b.rng = rng
		}
	}
}

// WithShuffleMargin sets the relative cost margin within which Shuffle
// considers a candidate "as good as" the optimum.
func WithShuffleMargin(margin float64) Option {
	return func(b *BruteForce) {
		if margin >= 0 {
			b.shuffleMargin = margin
		}
	}
}
