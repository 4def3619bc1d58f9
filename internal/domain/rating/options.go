package rating

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithKFactor sets the Elo K factor.
func WithKFactor(k float64) Option {
	return func(e *Engine) {
		if k > 0 {
			e.k = k
		}
	}
}

// WithHandicapPerPlayer sets the rating credit per player-equivalent of
// effective-strength shortfall.
func WithHandicapPerPlayer(points float64) Option {
	return func(e *Engine) {
		if points >= 0 {
			e.handicapPerPlayer = points
		}
	}
}

// WithGDMultiplierCap sets the ceiling on the goal-difference multiplier.
func WithGDMultiplierCap(limit float64) Option {
	return func(e *Engine) {
		if limit >= 1 {
			e.gdCap = limit
		}
	}
}
