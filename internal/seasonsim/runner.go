package seasonsim

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"

	service "github.com/ferologics/sunday-football-manager/internal/app"
	"github.com/ferologics/sunday-football-manager/internal/domain/model"
	"github.com/ferologics/sunday-football-manager/pkg/logger"
)

// Season shape constants.
const (
	minSquadSize   = 4
	maxScore       = 5
	ratingSpread   = 200.0
	tagProbability = 0.4
	subProbability = 0.15
)

// Config controls a simulated season.
type Config struct {
	Players int
	Rounds  int
	Shuffle bool
}

// Runner executes a season against a live service.
type Runner struct {
	client *Client
	rng    *rand.Rand
	log    logger.Logger
}

// NewRunner creates a runner with a seeded RNG so runs are reproducible.
func NewRunner(client *Client, seed int64) *Runner {
	return &Runner{
		client: client,
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // reproducible simulation
		log:    logger.Named("seasonsim"),
	}
}

// Run creates the roster, plays the configured rounds and prints the final
// table.
func (r *Runner) Run(ctx context.Context, cfg Config) error {
	if cfg.Players < minSquadSize {
		return fmt.Errorf("need at least %d players, got %d", minSquadSize, cfg.Players)
	}
	if cfg.Players > model.MaxRosterSize {
		cfg.Players = model.MaxRosterSize
	}

	ids, err := r.createRoster(ctx, cfg.Players)
	if err != nil {
		return err
	}

	for round := 1; round <= cfg.Rounds; round++ {
		if err := r.playRound(ctx, ids, cfg.Shuffle); err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
	}

	return r.printTable(ctx)
}

func (r *Runner) createRoster(ctx context.Context, n int) ([]string, error) {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		rating := model.DefaultRating + (r.rng.Float64()*2-1)*ratingSpread
		p := service.NewPlayer{
			Name:   "sim-" + uuid.NewString()[:8],
			Rating: &rating,
			Tags:   r.randomTags(i),
		}
		created, err := r.client.CreatePlayer(ctx, p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, created.ID)
	}
	r.log.Info(ctx, "roster created", logger.Int("players", n))
	return ids, nil
}

// randomTags assigns styles at random, guaranteeing two keepers across the
// first two players so the GK constraint gets exercised.
func (r *Runner) randomTags(i int) []string {
	if i < 2 {
		return []string{string(model.TagGK)}
	}
	var tags []string
	for _, t := range []model.Tag{model.TagPlaymaker, model.TagRunner, model.TagDef, model.TagAtk} {
		if r.rng.Float64() < tagProbability {
			tags = append(tags, string(t))
		}
	}
	return tags
}

func (r *Runner) playRound(ctx context.Context, ids []string, shuffle bool) error {
	split, err := r.client.ProposeTeams(ctx, ids, shuffle)
	if err != nil {
		return err
	}

	req := service.RecordRequest{
		TeamA:  r.participants(split.TeamA),
		TeamB:  r.participants(split.TeamB),
		ScoreA: r.rng.Intn(maxScore + 1),
		ScoreB: r.rng.Intn(maxScore + 1),
	}
	match, err := r.client.RecordMatch(ctx, req)
	if err != nil {
		return err
	}
	r.log.Info(ctx, "round played",
		logger.String("match", match.ID),
		logger.Int("score_a", match.ScoreA),
		logger.Int("score_b", match.ScoreB))
	return nil
}

func (r *Runner) participants(team []model.Player) []service.Participant {
	out := make([]service.Participant, len(team))
	for i, p := range team {
		fraction := model.FractionFull
		if r.rng.Float64() < subProbability {
			fraction = model.FractionHalf
		}
		out[i] = service.Participant{PlayerID: p.ID, Fraction: fraction}
	}
	return out
}

func (r *Runner) printTable(ctx context.Context) error {
	players, err := r.client.Players(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRATING\tMATCHES\tTAGS")
	for _, p := range players {
		fmt.Fprintf(w, "%s\t%.1f\t%d\t%v\n", p.Name, p.Rating, p.MatchesPlayed, p.Tags)
	}
	return w.Flush()
}
