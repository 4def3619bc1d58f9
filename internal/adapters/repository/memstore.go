package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ferologics/sunday-football-manager/internal/domain/model"
)

// InMemoryStore implements Store with a mutex-guarded map. State lives for
// the process lifetime; durable persistence is a concern of the deployment,
// not of this service.
type InMemoryStore struct {
	mu      sync.RWMutex
	players map[string]model.Player
	matches []Match

	newID func() string
	now   func() time.Time
}

// NewInMemoryStore creates an empty store with configuration options.
func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		players: make(map[string]model.Player),
		newID:   uuid.NewString,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreatePlayer adds p to the roster.
func (s *InMemoryStore) CreatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ctx.Err(); err != nil {
		return model.Player{}, fmt.Errorf("create player: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.players {
		if strings.EqualFold(existing.Name, p.Name) {
			return model.Player{}, fmt.Errorf("%q: %w", p.Name, ErrDuplicateName)
		}
	}

	if p.ID == "" {
		p.ID = s.newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.players[p.ID] = p
	return p, nil
}

// Player returns the player with the given id.
func (s *InMemoryStore) Player(ctx context.Context, id string) (model.Player, error) {
	if err := ctx.Err(); err != nil {
		return model.Player{}, fmt.Errorf("get player: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return model.Player{}, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return p, nil
}

// PlayersByID resolves ids in order.
func (s *InMemoryStore) PlayersByID(ctx context.Context, ids []string) ([]model.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := s.players[id]
		if !ok {
			return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
		}
		out = append(out, p)
	}
	return out, nil
}

// ListPlayers returns the roster sorted by name.
func (s *InMemoryStore) ListPlayers(ctx context.Context) ([]model.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// UpdatePlayer replaces the stored player identified by p.ID.
func (s *InMemoryStore) UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ctx.Err(); err != nil {
		return model.Player{}, fmt.Errorf("update player: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.players[p.ID]
	if !ok {
		return model.Player{}, fmt.Errorf("%q: %w", p.ID, ErrNotFound)
	}
	for id, other := range s.players {
		if id != p.ID && strings.EqualFold(other.Name, p.Name) {
			return model.Player{}, fmt.Errorf("%q: %w", p.Name, ErrDuplicateName)
		}
	}

	p.CreatedAt = existing.CreatedAt
	p.MatchesPlayed = existing.MatchesPlayed
	s.players[p.ID] = p
	return p, nil
}

// DeletePlayer removes the player with the given id.
func (s *InMemoryStore) DeletePlayer(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[id]; !ok {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	delete(s.players, id)
	return nil
}

// ApplyChanges folds rating deltas into the roster. Ids without a roster
// entry (guests) are silently skipped.
func (s *InMemoryStore) ApplyChanges(ctx context.Context, changes map[string]model.RatingChange) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("apply changes: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range changes {
		p, ok := s.players[id]
		if !ok {
			continue
		}
		p.Rating += c.Delta
		p.MatchesPlayed++
		s.players[id] = p
	}
	return nil
}

// RecordMatch appends m to the history.
func (s *InMemoryStore) RecordMatch(ctx context.Context, m Match) (Match, error) {
	if err := ctx.Err(); err != nil {
		return Match{}, fmt.Errorf("record match: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = s.newID()
	}
	if m.PlayedAt.IsZero() {
		m.PlayedAt = s.now()
	}
	s.matches = append(s.matches, m)
	return m, nil
}

// ListMatches returns the history, newest first.
func (s *InMemoryStore) ListMatches(ctx context.Context) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Match, len(s.matches))
	for i, m := range s.matches {
		out[len(s.matches)-1-i] = m
	}
	return out, nil
}

// CountPlayers returns the roster size.
func (s *InMemoryStore) CountPlayers(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
