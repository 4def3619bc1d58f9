package rating

import "errors"

// Sentinel kinds for rating errors. These allow errors.Is from callers.
var (
	ErrEmptyTeam            = errors.New("team has no participants")
	ErrInvalidParticipation = errors.New("participation fraction not allowed")
	ErrMalformedMatch       = errors.New("duplicate participant in match")
	ErrNegativeScore        = errors.New("score must be non-negative")
)
