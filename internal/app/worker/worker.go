package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"fairworkly/internal/domain/award"
	"fairworkly/internal/domain/employee"
	"fairworkly/internal/domain/roster"
	"fairworkly/internal/platform/cache"
	"fairworkly/internal/platform/config"
	"fairworkly/internal/platform/db"
	"fairworkly/internal/platform/queue"
)

// Handler processes queued roster validation tasks.
type Handler struct {
	rosters *roster.Service
	logger  *slog.Logger
}

func NewHandler(rosters *roster.Service, logger *slog.Logger) *Handler {
	return &Handler{rosters: rosters, logger: logger}
}

func (h *Handler) HandleRosterValidate(ctx context.Context, task *asynq.Task) error {
	var payload queue.RosterValidatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	h.logger.Info("processing roster validation",
		"rosterId", payload.RosterID,
		"organizationId", payload.OrganizationID)

	if _, err := h.rosters.Validate(ctx, payload.OrganizationID, payload.RosterID); err != nil {
		h.logger.Error("roster validation task failed",
			"rosterId", payload.RosterID,
			"error", err)
		return err
	}
	return nil
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}
	if cfg.RedisAddr == "" {
		log.Fatal("REDIS_ADDR is required for the worker")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	params := award.NewParameterProvider()
	if cfg.AwardParamsFile != "" {
		params, err = award.NewParameterProviderFromFile(cfg.AwardParamsFile)
		if err != nil {
			log.Fatalf("award parameter overrides failed: %v", err)
		}
	}

	resultCache := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.ResultCacheTTL)
	defer resultCache.Close()

	// The worker never enqueues, so validation inside it is synchronous.
	rosterService := roster.NewService(roster.NewStore(pool), employee.NewStore(pool), params, nil, resultCache, logger)
	handler := NewHandler(rosterService, logger)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword},
		asynq.Config{Concurrency: cfg.WorkerConcurrency},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskRosterValidate, handler.HandleRosterValidate)

	log.Printf("fairworkly worker processing %s", queue.TaskRosterValidate)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("worker failed: %v", err)
	}
}
