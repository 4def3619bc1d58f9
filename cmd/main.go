package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ferologics/sunday-football-manager/internal/adapters/http/api"
	"github.com/ferologics/sunday-football-manager/internal/adapters/http/swagger"
	"github.com/ferologics/sunday-football-manager/internal/adapters/repository"
	service "github.com/ferologics/sunday-football-manager/internal/app"
	"github.com/ferologics/sunday-football-manager/internal/config"
	"github.com/ferologics/sunday-football-manager/internal/domain/balance"
	"github.com/ferologics/sunday-football-manager/internal/domain/rating"
	"github.com/ferologics/sunday-football-manager/pkg/logger"
	"github.com/ferologics/sunday-football-manager/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout          = 10 * time.Second
	writeTimeout         = 10 * time.Second
	idleTimeout          = 60 * time.Second
	readHeaderTimeout    = 5 * time.Second
	shutdownTimeout      = 30 * time.Second
	stateMetricsInterval = 10 * time.Second
)

func main() {
	// Disable default Go metrics collection; the registry carries only our
	// own metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store := repository.NewInMemoryStore()
	splitter := balance.NewBruteForce(
		balance.WithTagWeights(cfg.Weights()),
		balance.WithRand(rand.New(rand.NewSource(time.Now().UnixNano()))), //nolint:gosec // not used for security
		balance.WithShuffleMargin(cfg.ShuffleMargin),
	)
	engine := rating.NewEngine(
		rating.WithKFactor(cfg.KFactor),
		rating.WithHandicapPerPlayer(cfg.HandicapPerPlayer),
		rating.WithGDMultiplierCap(cfg.GDMultiplierCap),
	)

	svc := service.New(
		service.WithStore(store),
		service.WithSplitter(splitter),
		service.WithEngine(engine),
		service.WithDefaultRating(cfg.DefaultRating),
		service.WithMaxRosterSize(cfg.MaxRosterSize),
		service.WithLogger(log.Named("service")),
	)

	go startStateMetricsUpdater(ctx, store)

	mux := http.NewServeMux()
	api.NewServer(svc).Register(ctx, mux)
	swagger.Register(ctx, mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "http server listening", logger.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "http server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "graceful shutdown failed", logger.Error(err))
	}
}

// startStateMetricsUpdater periodically refreshes roster gauges.
func startStateMetricsUpdater(ctx context.Context, store repository.Store) {
	ticker := time.NewTicker(stateMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateRosterSize(store.CountPlayers(ctx))
			if matches, err := store.ListMatches(ctx); err == nil {
				metrics.UpdateMatchCount(len(matches))
			}
		}
	}
}
