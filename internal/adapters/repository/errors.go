package repository

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrNotFound      = errors.New("player not found")
	ErrDuplicateName = errors.New("player name already taken")
)
