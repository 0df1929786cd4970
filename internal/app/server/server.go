package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairworkly/internal/domain/award"
	"fairworkly/internal/domain/employee"
	"fairworkly/internal/domain/payroll"
	"fairworkly/internal/domain/roster"
	"fairworkly/internal/platform/cache"
	"fairworkly/internal/platform/config"
	"fairworkly/internal/platform/db"
	"fairworkly/internal/platform/metrics"
	"fairworkly/internal/platform/queue"
	"fairworkly/internal/transport/http/api"
	payrollhandler "fairworkly/internal/transport/http/handlers/payroll"
	rosterhandler "fairworkly/internal/transport/http/handlers/roster"
	"fairworkly/internal/transport/http/middleware"
)

// Deps are the wired services the router exposes.
type Deps struct {
	Pool    *pgxpool.Pool
	Payroll *payroll.Service
	Roster  *roster.Service
	Logger  *slog.Logger
}

func NewRouter(cfg config.Config, deps Deps) http.Handler {
	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := deps.Pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(120, time.Minute))

		payrollhandler.NewHandler(deps.Payroll).RegisterRoutes(r)
		rosterhandler.NewHandler(deps.Roster).RegisterRoutes(r)
	})

	return router
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	params := award.NewParameterProvider()
	if cfg.AwardParamsFile != "" {
		params, err = award.NewParameterProviderFromFile(cfg.AwardParamsFile)
		if err != nil {
			log.Fatalf("award parameter overrides failed: %v", err)
		}
	}

	queueClient := queue.NewClient(cfg.RedisAddr, cfg.RedisPassword)
	defer queueClient.Close()
	resultCache := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.ResultCacheTTL)
	defer resultCache.Close()

	if cfg.SeedDemoOrgID != "" {
		if err := db.SeedDemoEmployees(ctx, pool, cfg.SeedDemoOrgID); err != nil {
			log.Fatalf("demo seed failed: %v", err)
		}
	}

	employeeStore := employee.NewStore(pool)
	payrollService := payroll.NewService(payroll.NewStore(pool), employeeStore, logger)
	rosterService := roster.NewService(roster.NewStore(pool), employeeStore, params, queueClient, resultCache, logger)

	router := NewRouter(cfg, Deps{
		Pool:    pool,
		Payroll: payrollService,
		Roster:  rosterService,
		Logger:  logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("fairworkly api listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
