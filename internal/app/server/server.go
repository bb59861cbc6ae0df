package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"paydesk/internal/app/controller"
	"paydesk/internal/domain/auth"
	"paydesk/internal/domain/payroll"
	"paydesk/internal/domain/payslip"
	"paydesk/internal/platform/config"
	"paydesk/internal/platform/crypto"
	"paydesk/internal/platform/db"
	"paydesk/internal/platform/metrics"
	"paydesk/internal/store/memory"
	"paydesk/internal/store/observed"
	"paydesk/internal/store/postgres"
	"paydesk/internal/store/remote"
	authhandler "paydesk/internal/transport/http/handlers/auth"
	payrollhandler "paydesk/internal/transport/http/handlers/payroll"
	signaturehandler "paydesk/internal/transport/http/handlers/signature"
	storehandler "paydesk/internal/transport/http/handlers/store"
	"paydesk/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	Router  http.Handler
	Repo    *payroll.Repository
	Metrics *metrics.Collector

	pool *pgxpool.Pool
}

// New builds the store backend, loads the payroll collection and wires the
// HTTP router. A failed initial load is logged and surfaced through the
// status endpoint rather than aborting startup.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg, Metrics: metrics.New()}

	store, err := app.openStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	if cfg.SeedFile != "" && cfg.StoreBackend != config.BackendRemote {
		records, err := db.LoadSeed(cfg.SeedFile)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("load seed: %w", err)
		}
		if _, err := db.Seed(ctx, store, records); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}

	app.Repo = payroll.NewRepository(observed.Wrap(store, app.Metrics, cfg.StoreBackend))
	if err := app.Repo.LoadAll(ctx); err != nil {
		log.Warn().Err(err).Str("backend", cfg.StoreBackend).Msg("initial payroll load failed")
	}

	authn, err := auth.NewStaticAuthenticator(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		app.Close()
		return nil, err
	}
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	ctrl := controller.New(app.Repo, authn)

	app.Router = app.routes(ctrl, tokens)
	return app, nil
}

func (a *App) openStore(ctx context.Context) (payroll.Store, error) {
	cfg := a.Config
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		cryptoSvc, err := crypto.New(cfg.DataEncryptionKey)
		if err != nil {
			return nil, err
		}
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		a.pool = pool
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		return postgres.New(pool, cryptoSvc), nil
	case config.BackendRemote:
		return remote.New(cfg.StoreURL, cfg.StoreTimeout), nil
	default:
		return memory.New(), nil
	}
}

func (a *App) routes(ctrl *controller.Controller, tokens *auth.Tokens) http.Handler {
	cfg := a.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(a.Metrics))
	}
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if a.pool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := a.pool.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		status := a.Repo.Status()
		if !status.Loaded || status.Error != "" {
			http.Error(w, "payroll data not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Method(http.MethodGet, "/metrics", a.Metrics.Handler())
	}

	if cfg.StoreAPIEnabled && cfg.StoreBackend != config.BackendRemote {
		router.Group(func(r chi.Router) {
			r.Use(middleware.StoreToken(cfg.StoreAPIToken))
			r.Route("/api/payrolls", storehandler.NewHandler(a.Repo).Routes)
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(ctrl, tokens)
		r.With(middleware.LoginRateLimit(cfg.LoginRateLimit, time.Minute)).Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Post("/auth/logout", authHandler.HandleLogout)
			r.Get("/auth/session", authHandler.HandleSession)

			payrollHandler := payrollhandler.NewHandler(ctrl, a.Repo, payslip.Options{
				Organization: cfg.OrganizationName,
				Currency:     cfg.Currency,
			})
			payrollHandler.RegisterRoutes(r)

			signaturehandler.NewHandler().RegisterRoutes(r)
		})
	})

	return router
}

func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg config.Config) error {
	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("backend", cfg.StoreBackend).Msg("paydesk server listening")
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}
