// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/ferologics/sunday-football-manager/internal/app"
)

// MatchesHandler handles match result requests.
type MatchesHandler struct {
	deps Dependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps Dependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleMatches handles POST /matches and GET /matches.
func (h *MatchesHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.matches"
	switch r.Method {
	case http.MethodGet:
		matches, err := h.deps.Matches(r.Context())
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	case http.MethodPost:
		var req service.RecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if len(req.TeamA) == 0 || len(req.TeamB) == 0 {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("both teams required")))
			return
		}
		match, err := h.deps.RecordResult(r.Context(), req)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, match)
	default:
		http.NotFound(w, r)
	}
}
