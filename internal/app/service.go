// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ferologics/sunday-football-manager/internal/adapters/repository"
	"github.com/ferologics/sunday-football-manager/internal/domain/balance"
	"github.com/ferologics/sunday-football-manager/internal/domain/model"
	"github.com/ferologics/sunday-football-manager/internal/domain/rating"
	"github.com/ferologics/sunday-football-manager/pkg/logger"
	"github.com/ferologics/sunday-football-manager/pkg/metrics"
)

const millisecondsPerNanosecond = 1e6

// Service composes the roster store, the balancer and the rating engine.
type Service struct {
	store    repository.Store
	splitter balance.Splitter
	engine   *rating.Engine

	defaultRating float64
	maxRoster     int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the roster store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSplitter sets the team balancer.
func WithSplitter(splitter balance.Splitter) Option {
	return func(s *Service) {
		if splitter != nil {
			s.splitter = splitter
		}
	}
}

// WithEngine sets the rating engine.
func WithEngine(engine *rating.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithDefaultRating sets the rating assigned to new players.
func WithDefaultRating(r float64) Option {
	return func(s *Service) {
		s.defaultRating = r
	}
}

// WithMaxRosterSize caps how many players one balancing request may carry.
func WithMaxRosterSize(n int) Option {
	return func(s *Service) {
		if n >= 2 {
			s.maxRoster = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default collaborators.
func New(opts ...Option) *Service {
	s := &Service{
		store:         repository.NewInMemoryStore(),
		splitter:      balance.NewBruteForce(),
		engine:        rating.NewEngine(),
		defaultRating: model.DefaultRating,
		maxRoster:     model.MaxRosterSize,
		logger:        nil, // resolved lazily so tests can Init first
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	return s
}

// NewPlayer is the shape accepted when adding a roster member.
type NewPlayer struct {
	Name   string   `json:"name"`
	Rating *float64 `json:"rating,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// UpdatePlayer is the shape accepted when editing a roster member.
type UpdatePlayer struct {
	Name   string   `json:"name"`
	Rating float64  `json:"rating"`
	Tags   []string `json:"tags"`
}

// Participant names one player's share of a recorded match. Guests carry
// their own rating and never touch the roster.
type Participant struct {
	PlayerID string  `json:"player_id,omitempty"`
	Fraction float64 `json:"fraction"`
	Guest    bool    `json:"guest,omitempty"`
	Name     string  `json:"name,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
}

// RecordRequest is a completed match as reported by the organizer.
type RecordRequest struct {
	TeamA  []Participant `json:"team_a"`
	TeamB  []Participant `json:"team_b"`
	ScoreA int           `json:"score_a"`
	ScoreB int           `json:"score_b"`
}

// AddPlayer validates and stores a new roster member.
func (s *Service) AddPlayer(ctx context.Context, req NewPlayer) (model.Player, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Player{}, fmt.Errorf("empty name: %w", ErrInvalidPlayer)
	}
	tags, err := parseTags(req.Tags)
	if err != nil {
		return model.Player{}, err
	}

	p := model.Player{
		Name:   name,
		Rating: s.defaultRating,
		Tags:   tags,
	}
	if req.Rating != nil {
		if !isFinite(*req.Rating) {
			return model.Player{}, fmt.Errorf("rating must be finite: %w", ErrInvalidPlayer)
		}
		p.Rating = *req.Rating
	}

	created, err := s.store.CreatePlayer(ctx, p)
	if err != nil {
		return model.Player{}, err
	}
	s.logger.Info(ctx, "player added",
		logger.String("id", created.ID),
		logger.String("name", created.Name),
		logger.Float64("rating", created.Rating))
	metrics.UpdateRosterSize(s.store.CountPlayers(ctx))
	return created, nil
}

// EditPlayer updates a roster member's name, rating and tags.
func (s *Service) EditPlayer(ctx context.Context, id string, req UpdatePlayer) (model.Player, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Player{}, fmt.Errorf("empty name: %w", ErrInvalidPlayer)
	}
	if !isFinite(req.Rating) {
		return model.Player{}, fmt.Errorf("rating must be finite: %w", ErrInvalidPlayer)
	}
	tags, err := parseTags(req.Tags)
	if err != nil {
		return model.Player{}, err
	}

	return s.store.UpdatePlayer(ctx, model.Player{
		ID:     id,
		Name:   name,
		Rating: req.Rating,
		Tags:   tags,
	})
}

// RemovePlayer deletes a roster member.
func (s *Service) RemovePlayer(ctx context.Context, id string) error {
	if err := s.store.DeletePlayer(ctx, id); err != nil {
		return err
	}
	metrics.UpdateRosterSize(s.store.CountPlayers(ctx))
	return nil
}

// Players returns the roster sorted by name.
func (s *Service) Players(ctx context.Context) ([]model.Player, error) {
	return s.store.ListPlayers(ctx)
}

// ProposeTeams balances the checked-in players into two teams. With shuffle
// set, a random near-optimal split is returned instead of the optimum.
func (s *Service) ProposeTeams(ctx context.Context, playerIDs []string, shuffle bool) (model.TeamSplit, error) {
	if len(playerIDs) > s.maxRoster {
		return model.TeamSplit{}, fmt.Errorf("%d players, cap %d: %w", len(playerIDs), s.maxRoster, ErrRosterTooLarge)
	}
	roster, err := s.store.PlayersByID(ctx, playerIDs)
	if err != nil {
		return model.TeamSplit{}, err
	}

	start := time.Now()
	var split model.TeamSplit
	if shuffle {
		split, err = s.splitter.Shuffle(ctx, roster)
	} else {
		split, err = s.splitter.Split(ctx, roster)
	}
	if err != nil {
		metrics.RecordError("balance", "split_failed")
		return model.TeamSplit{}, err
	}

	durationMs := float64(time.Since(start).Nanoseconds()) / millisecondsPerNanosecond
	metrics.RecordSplit(len(roster), durationMs)
	s.logger.Info(ctx, "teams proposed",
		logger.Int("roster", len(roster)),
		logger.Float64("cost", split.Cost),
		logger.Float64("rating_diff", split.RatingDiff))
	return split, nil
}

// RecordResult runs the rating engine over a reported match, applies the
// deltas to the roster and appends the match to the history. Guest changes
// are computed for team strength but never persisted.
func (s *Service) RecordResult(ctx context.Context, req RecordRequest) (repository.Match, error) {
	teamA, err := s.resolveSide(ctx, req.TeamA)
	if err != nil {
		return repository.Match{}, err
	}
	teamB, err := s.resolveSide(ctx, req.TeamB)
	if err != nil {
		return repository.Match{}, err
	}

	changes, err := s.engine.ApplyResult(ctx, model.MatchResult{
		TeamA:  teamA,
		TeamB:  teamB,
		ScoreA: req.ScoreA,
		ScoreB: req.ScoreB,
	})
	if err != nil {
		metrics.RecordError("rating", "apply_failed")
		return repository.Match{}, err
	}

	// Guests are rated in-match only; their entries never leave this call.
	for _, p := range append(append([]model.Participation(nil), teamA...), teamB...) {
		if p.Guest {
			delete(changes, p.PlayerID)
		}
	}

	if err := s.store.ApplyChanges(ctx, changes); err != nil {
		return repository.Match{}, err
	}

	match, err := s.store.RecordMatch(ctx, repository.Match{
		TeamA:   sideIDs(teamA),
		TeamB:   sideIDs(teamB),
		ScoreA:  req.ScoreA,
		ScoreB:  req.ScoreB,
		Changes: changes,
	})
	if err != nil {
		return repository.Match{}, err
	}

	var moved float64
	for _, c := range changes {
		moved += math.Abs(c.Delta)
	}
	metrics.RecordMatchRecorded(moved)
	if matches, err := s.store.ListMatches(ctx); err == nil {
		metrics.UpdateMatchCount(len(matches))
	}
	s.logger.Info(ctx, "match recorded",
		logger.String("id", match.ID),
		logger.Int("score_a", match.ScoreA),
		logger.Int("score_b", match.ScoreB),
		logger.Float64("points_moved", moved))
	return match, nil
}

// Matches returns the match history, newest first.
func (s *Service) Matches(ctx context.Context) ([]repository.Match, error) {
	return s.store.ListMatches(ctx)
}

// resolveSide turns reported participants into engine input, pulling
// pre-match ratings from the roster and minting guest ids.
func (s *Service) resolveSide(ctx context.Context, side []Participant) ([]model.Participation, error) {
	out := make([]model.Participation, 0, len(side))
	for i, part := range side {
		if part.Guest {
			name := strings.TrimSpace(part.Name)
			if name == "" {
				return nil, fmt.Errorf("guest %d has no name: %w", i, ErrInvalidPlayer)
			}
			r := part.Rating
			if r == 0 {
				r = s.defaultRating
			}
			out = append(out, model.Participation{
				PlayerID:  "guest:" + name,
				PreRating: r,
				Fraction:  part.Fraction,
				Guest:     true,
			})
			continue
		}
		p, err := s.store.Player(ctx, part.PlayerID)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Participation{
			PlayerID:  p.ID,
			PreRating: p.Rating,
			Fraction:  part.Fraction,
		})
	}
	return out, nil
}

func sideIDs(side []model.Participation) []string {
	ids := make([]string, len(side))
	for i, p := range side {
		ids[i] = p.PlayerID
	}
	return ids
}

func parseTags(raw []string) ([]model.Tag, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	tags := make([]model.Tag, 0, len(raw))
	for _, r := range raw {
		t, ok := model.ParseTag(r)
		if !ok {
			return nil, fmt.Errorf("%q: %w", r, ErrUnknownTag)
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
