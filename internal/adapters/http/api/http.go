// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ferologics/sunday-football-manager/internal/adapters/repository"
	service "github.com/ferologics/sunday-football-manager/internal/app"
	"github.com/ferologics/sunday-football-manager/internal/domain/balance"
	"github.com/ferologics/sunday-football-manager/internal/domain/model"
	"github.com/ferologics/sunday-football-manager/internal/domain/rating"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	AddPlayer(ctx context.Context, req service.NewPlayer) (model.Player, error)
	EditPlayer(ctx context.Context, id string, req service.UpdatePlayer) (model.Player, error)
	RemovePlayer(ctx context.Context, id string) error
	Players(ctx context.Context) ([]model.Player, error)

	ProposeTeams(ctx context.Context, playerIDs []string, shuffle bool) (model.TeamSplit, error)

	RecordResult(ctx context.Context, req service.RecordRequest) (repository.Match, error)
	Matches(ctx context.Context) ([]repository.Match, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	playersHandler *PlayersHandler
	teamsHandler   *TeamsHandler
	matchesHandler *MatchesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		playersHandler: NewPlayersHandler(deps),
		teamsHandler:   NewTeamsHandler(deps),
		matchesHandler: NewMatchesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandlePlayers, "players"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandlePlayer, "player"))
	mux.HandleFunc("/teams", MetricsMiddleware(s.teamsHandler.HandleProposeTeams, "teams"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleMatches, "matches"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps known sentinel errors to their HTTP shape so every
// handler translates failures the same way.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, repository.ErrDuplicateName):
		writeError(w, http.StatusConflict, "duplicate_name", Wrap(op, err))
	case errors.Is(err, balance.ErrInsufficientPlayers),
		errors.Is(err, balance.ErrMalformedRoster),
		errors.Is(err, rating.ErrEmptyTeam),
		errors.Is(err, rating.ErrInvalidParticipation),
		errors.Is(err, rating.ErrMalformedMatch),
		errors.Is(err, rating.ErrNegativeScore),
		errors.Is(err, service.ErrInvalidPlayer),
		errors.Is(err, service.ErrUnknownTag),
		errors.Is(err, service.ErrRosterTooLarge):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
