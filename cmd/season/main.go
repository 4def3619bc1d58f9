package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ferologics/sunday-football-manager/internal/seasonsim"
	"github.com/ferologics/sunday-football-manager/pkg/logger"
)

// Default simulation constants.
const (
	defaultPlayers = 12
	defaultRounds  = 10
	defaultTimeout = 30 * time.Second
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		players = flag.Int("players", defaultPlayers, "Number of players to create (capped at 14)")
		rounds  = flag.Int("rounds", defaultRounds, "Number of match rounds to play")
		shuffle = flag.Bool("shuffle", false, "Use randomized near-optimal splits")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "RNG seed for reproducible seasons")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := seasonsim.NewClient(*baseURL, &http.Client{Timeout: *timeout})
	runner := seasonsim.NewRunner(client, *seed)

	if err := runner.Run(ctx, seasonsim.Config{
		Players: *players,
		Rounds:  *rounds,
		Shuffle: *shuffle,
	}); err != nil {
		logger.Get().Error(ctx, "season failed", logger.Error(err))
		os.Exit(1)
	}
}
