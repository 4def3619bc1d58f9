// Package repository defines the roster store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/ferologics/sunday-football-manager/internal/domain/model"
)

// Match is a recorded result with the rating snapshot taken at the time.
type Match struct {
	ID       string                        `json:"id"`
	PlayedAt time.Time                     `json:"played_at"`
	TeamA    []string                      `json:"team_a"`
	TeamB    []string                      `json:"team_b"`
	ScoreA   int                           `json:"score_a"`
	ScoreB   int                           `json:"score_b"`
	Changes  map[string]model.RatingChange `json:"changes"`
}

// Store provides read/write access to the roster and match history.
type Store interface {
	// CreatePlayer adds p, minting an ID when none is set.
	// Returns ErrDuplicateName if the name is taken.
	CreatePlayer(ctx context.Context, p model.Player) (model.Player, error)

	// Player returns a single player. Returns ErrNotFound if unknown.
	Player(ctx context.Context, id string) (model.Player, error)

	// PlayersByID resolves ids in order. Returns ErrNotFound if any is unknown.
	PlayersByID(ctx context.Context, ids []string) ([]model.Player, error)

	// ListPlayers returns the full roster sorted by name.
	ListPlayers(ctx context.Context) ([]model.Player, error)

	// UpdatePlayer replaces the stored player identified by p.ID.
	UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error)

	// DeletePlayer removes a player from the roster.
	DeletePlayer(ctx context.Context, id string) error

	// ApplyChanges adds each delta to the matching player's rating and
	// bumps their match count. Unknown ids are skipped: guests never make
	// it onto the roster.
	ApplyChanges(ctx context.Context, changes map[string]model.RatingChange) error

	// RecordMatch appends m to the history, minting an ID when none is set.
	RecordMatch(ctx context.Context, m Match) (Match, error)

	// ListMatches returns the history, newest first.
	ListMatches(ctx context.Context) ([]Match, error)

	// CountPlayers returns the roster size.
	CountPlayers(ctx context.Context) int
}
