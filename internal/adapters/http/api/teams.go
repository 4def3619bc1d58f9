// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// TeamsHandler handles balancing requests.
type TeamsHandler struct {
	deps Dependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// proposeRequest mirrors the request body for POST /teams.
type proposeRequest struct {
	PlayerIDs []string `json:"player_ids"`
	Shuffle   bool     `json:"shuffle"`
}

func (p proposeRequest) validate() error {
	if len(p.PlayerIDs) == 0 {
		return errors.New("missing player_ids")
	}
	return nil
}

// HandleProposeTeams handles POST /teams requests.
func (h *TeamsHandler) HandleProposeTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.propose_teams"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req proposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	split, err := h.deps.ProposeTeams(r.Context(), req.PlayerIDs, req.Shuffle)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, split)
}
