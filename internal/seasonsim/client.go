// Package seasonsim drives a running service through a simulated season:
// it fills a roster, then repeatedly proposes teams and records results.
package seasonsim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ferologics/sunday-football-manager/internal/adapters/repository"
	service "github.com/ferologics/sunday-football-manager/internal/app"
	"github.com/ferologics/sunday-football-manager/internal/domain/model"
)

// Client is a thin JSON client for the service API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// CreatePlayer registers a roster member.
func (c *Client) CreatePlayer(ctx context.Context, req service.NewPlayer) (model.Player, error) {
	var out model.Player
	err := c.do(ctx, http.MethodPost, "/players", req, &out)
	return out, err
}

// Players lists the roster.
func (c *Client) Players(ctx context.Context) ([]model.Player, error) {
	var out []model.Player
	err := c.do(ctx, http.MethodGet, "/players", nil, &out)
	return out, err
}

// ProposeTeams asks the service for a balanced split.
func (c *Client) ProposeTeams(ctx context.Context, playerIDs []string, shuffle bool) (model.TeamSplit, error) {
	req := struct {
		PlayerIDs []string `json:"player_ids"`
		Shuffle   bool     `json:"shuffle"`
	}{PlayerIDs: playerIDs, Shuffle: shuffle}

	var out model.TeamSplit
	err := c.do(ctx, http.MethodPost, "/teams", req, &out)
	return out, err
}

// RecordMatch reports a result.
func (c *Client) RecordMatch(ctx context.Context, req service.RecordRequest) (repository.Match, error) {
	var out repository.Match
	err := c.do(ctx, http.MethodPost, "/matches", req, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s %s: %d %s: %s", method, path, resp.StatusCode, apiErr.Code, apiErr.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
