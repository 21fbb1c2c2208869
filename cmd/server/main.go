// Command server starts the career discovery HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	ai "github.com/fairyhunter13/career-compass/internal/adapter/ai"
	"github.com/fairyhunter13/career-compass/internal/adapter/ai/openai"
	eventspub "github.com/fairyhunter13/career-compass/internal/adapter/events/redpanda"
	httpserver "github.com/fairyhunter13/career-compass/internal/adapter/httpserver"
	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/career-compass/internal/adapter/vector"
	qdrantcli "github.com/fairyhunter13/career-compass/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/career-compass/internal/app"
	"github.com/fairyhunter13/career-compass/internal/config"
	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/prompts"
	"github.com/fairyhunter13/career-compass/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// AI client with layered embed caches: Redis (optional, shared) under an
	// in-process FIFO cache.
	var aiClient domain.AIClient = openai.New(cfg)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		aiClient = ai.NewRedisEmbedCache(aiClient, rdb, 24*time.Hour)
	}
	aiClient = ai.NewEmbedCache(aiClient, cfg.EmbedCacheSize)

	// Vector index: wait, verify model marker, seed.
	qd := qdrantcli.New(cfg.QdrantURL, cfg.QdrantAPIKey)
	index := vector.NewEmbeddingIndex(qd, aiClient, cfg.QdrantCollection, cfg.EmbeddingsModel, cfg.EmbeddingsDim)
	if err := app.WaitForQdrant(ctx, qd, 2*time.Minute); err != nil {
		slog.Error("qdrant unavailable at startup", slog.Any("error", err))
		os.Exit(1)
	}
	if err := index.EnsureReady(ctx); err != nil {
		// A model mismatch means stored vectors are not comparable with new
		// queries; refusing to start is the only safe answer.
		slog.Error("career index not usable", slog.Any("error", err))
		os.Exit(1)
	}
	if err := app.SeedIndex(ctx, index, cfg.CorpusPath); err != nil {
		slog.Warn("corpus seeding failed, serving existing index", slog.Any("error", err))
	}

	// Optional feedback persistence.
	var pool *pgxpool.Pool
	var feedbackRepo domain.FeedbackRepository
	if cfg.FeedbackRepoEnabled() {
		pool, err = postgres.NewPool(ctx, cfg.DBURL)
		if err != nil {
			slog.Error("db connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		repo := postgres.NewFeedbackRepo(pool)
		if err := repo.Migrate(ctx); err != nil {
			slog.Error("feedback migration failed", slog.Any("error", err))
			os.Exit(1)
		}
		feedbackRepo = repo
	}

	// Optional session event stream.
	var events domain.EventPublisher
	if cfg.EventsEnabled() {
		pub, err := eventspub.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			slog.Error("event publisher connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = pub.Close() }()
		events = pub
	}

	promptStore := prompts.NewStore(cfg.PromptsDir)
	extractor := usecase.NewPreferenceExtractor(aiClient, promptStore, cfg.ChatModel, cfg.ChatMaxTokens, cfg.PromptTokenLimit)
	clarifier := usecase.NewClarificationGenerator(aiClient, promptStore, cfg.ChatMaxTokens)
	matcher := usecase.NewMatchingEngine(index, cfg.MatchTopK)
	explainer := usecase.NewExplainer(aiClient, promptStore, cfg.ChatMaxTokens)
	flow := usecase.NewFlowController(extractor, clarifier, matcher, explainer, feedbackRepo, events, cfg.MatchTopK)

	sessions := usecase.NewSessionRegistry(cfg.SessionTTL)
	sessions.StartSweeper(ctx, 5*time.Minute)

	srv := httpserver.NewServer(sessions, flow, app.ReadinessChecks(qd, rdb, pool))
	handler := app.BuildRouter(cfg, srv)

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		slog.Info("server listening", slog.Int("port", cfg.Port), slog.String("env", cfg.AppEnv))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", slog.Any("error", err))
	}
}
