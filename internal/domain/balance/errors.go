package balance

import "errors"

// Sentinel kinds for balancing errors. These allow errors.Is from callers.
var (
	ErrInsufficientPlayers = errors.New("insufficient players to split")
	ErrMalformedRoster     = errors.New("duplicate player in roster")
)
