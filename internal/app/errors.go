package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrInvalidPlayer  = errors.New("invalid player")
	ErrUnknownTag     = errors.New("unknown tag")
	ErrRosterTooLarge = errors.New("roster exceeds the balancing cap")
)
