package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vera/internal/domain/registro"
	"vera/internal/platform/config"
	"vera/internal/platform/db"
	"vera/internal/platform/logging"
	"vera/internal/platform/metrics"
	"vera/internal/transport/http/api"
	registrohandler "vera/internal/transport/http/handlers/registros"
	"vera/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	Service *registro.Service
	Metrics *metrics.Collector
	Router  http.Handler
	pool    *pgxpool.Pool
}

// New opens the record store named by the configuration: Postgres when
// DATABASE_URL is set, memory otherwise.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var store registro.StoreAPI
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, db.Migrations()); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		store = registro.NewStore(pool)
	} else {
		slog.Warn("DATABASE_URL not set, records are kept in memory")
		store = registro.NewMemoryStore()
	}

	app := NewWithStore(cfg, store)
	app.pool = pool
	if cfg.SeedMockData {
		if err := app.seed(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	return app, nil
}

func NewWithStore(cfg config.Config, store registro.StoreAPI) *App {
	validator := registro.NewValidator(registro.SalaryBounds{Minimum: cfg.SalaryMin, Maximum: cfg.SalaryMax})
	app := &App{
		Config:  cfg,
		Service: registro.NewService(store, validator, cfg.CalculatedSalaryPercent),
		Metrics: metrics.New(),
	}
	app.Router = app.routes()
	return app
}

func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// seed loads the demonstration records into an empty store.
func (a *App) seed(ctx context.Context) error {
	existing, err := a.Service.List(ctx, registro.Params{Pagination: registro.Pagination{Limit: 1}})
	if err != nil {
		return err
	}
	if existing.Pagination.Total > 0 {
		return nil
	}
	records := registro.DemoRecords()
	if err := a.Service.Seed(ctx, records); err != nil {
		return err
	}
	slog.Info("mock data seeded", "records", len(records))
	return nil
}

func (a *App) routes() http.Handler {
	cfg := a.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.MutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Service.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot())
		})
	}

	router.Group(func(r chi.Router) {
		if cfg.JWTSecret != "" {
			r.Use(middleware.RequireAuth)
		}
		registrohandler.NewHandler(a.Service).RegisterRoutes(r)
	})

	return router
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func Run() error {
	cfg := config.Load()
	logging.Setup(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("VERA API listening", "addr", cfg.Addr, "env", cfg.Environment, "auth", cfg.JWTSecret != "")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
