// Command corpusseed embeds the career corpus and upserts it into the
// vector collection. Seeding is administrative and idempotent; run it out
// of band, not alongside query traffic.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	ai "github.com/fairyhunter13/career-compass/internal/adapter/ai"
	"github.com/fairyhunter13/career-compass/internal/adapter/ai/openai"
	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/adapter/vector"
	qdrantcli "github.com/fairyhunter13/career-compass/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/career-compass/internal/app"
	"github.com/fairyhunter13/career-compass/internal/config"
	"github.com/fairyhunter13/career-compass/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var aiClient domain.AIClient = openai.New(cfg)
	aiClient = ai.NewEmbedCache(aiClient, cfg.EmbedCacheSize)

	qd := qdrantcli.New(cfg.QdrantURL, cfg.QdrantAPIKey)
	index := vector.NewEmbeddingIndex(qd, aiClient, cfg.QdrantCollection, cfg.EmbeddingsModel, cfg.EmbeddingsDim)

	if err := app.WaitForQdrant(ctx, qd, 2*time.Minute); err != nil {
		slog.Error("qdrant unavailable", slog.Any("error", err))
		os.Exit(1)
	}
	if err := index.EnsureReady(ctx); err != nil {
		slog.Error("career index not usable", slog.Any("error", err))
		os.Exit(1)
	}
	if err := app.SeedIndex(ctx, index, cfg.CorpusPath); err != nil {
		slog.Error("seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("seeding complete", slog.String("collection", cfg.QdrantCollection))
}
