package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	"github.com/ferologics/sunday-football-manager/internal/adapters/http/api"
	"github.com/ferologics/sunday-football-manager/internal/adapters/http/swagger"
	"github.com/ferologics/sunday-football-manager/internal/adapters/repository"
	service "github.com/ferologics/sunday-football-manager/internal/app"
	"github.com/ferologics/sunday-football-manager/internal/config"
	"github.com/ferologics/sunday-football-manager/pkg/logger"
	"github.com/ferologics/sunday-football-manager/pkg/metrics"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("SFM_ADDR", ":8080")
			_ = os.Setenv("SFM_MAX_ROSTER_SIZE", "10")
			defer func() {
				_ = os.Unsetenv("SFM_ADDR")
				_ = os.Unsetenv("SFM_MAX_ROSTER_SIZE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxRosterSize, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := service.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := service.New(
					service.WithDefaultRating(1000),
					service.WithMaxRosterSize(10),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := service.New()
			convey.So(svc, convey.ShouldNotBeNil)

			convey.Convey("Then HTTP server should be creatable", func() {
				server := api.NewServer(svc)
				convey.So(server, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				registry := prometheus.NewRegistry()
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(registry))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing the state metrics updater", func() {
			store := repository.NewInMemoryStore()

			convey.Convey("Then it should run and stop with the context", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startStateMetricsUpdater(ctx, store)
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given main application integration", t, func() {
		convey.Convey("When testing full application setup", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg, convey.ShouldNotBeNil)

			svc := service.New(
				service.WithDefaultRating(cfg.DefaultRating),
				service.WithMaxRosterSize(cfg.MaxRosterSize),
			)
			convey.So(svc, convey.ShouldNotBeNil)

			mux := http.NewServeMux()
			api.NewServer(svc).Register(ctx, mux)
			swagger.Register(ctx, mux)

			convey.Convey("Then all components should work together", func() {
				convey.So(mux, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("SFM_K_FACTOR", "-5")
			defer func() { _ = os.Unsetenv("SFM_K_FACTOR") }()

			convey.Convey("Then configuration loading should fail", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When testing service creation with extreme options", func() {
			convey.Convey("Then guarded options keep the defaults", func() {
				svc := service.New(
					service.WithMaxRosterSize(0),
					service.WithStore(nil),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})
	})
}
