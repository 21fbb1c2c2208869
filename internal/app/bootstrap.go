package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/career-compass/internal/adapter/vector"
	"github.com/fairyhunter13/career-compass/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/career-compass/internal/corpus"
	"github.com/fairyhunter13/career-compass/internal/domain"
)

// WaitForQdrant blocks until Qdrant answers its readiness probe, with
// exponential backoff. Startup is the only place retries happen; every
// hot-path call stays single-attempt.
func WaitForQdrant(ctx context.Context, qd *qdrant.Client, maxElapsed time.Duration) error {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 500 * time.Millisecond
	expo.MaxInterval = 5 * time.Second
	expo.MaxElapsedTime = maxElapsed
	op := func() error {
		if err := qd.Healthz(ctx); err != nil {
			slog.Debug("waiting for qdrant", slog.Any("error", err))
			return err
		}
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		return fmt.Errorf("%w: qdrant not ready: %v", domain.ErrIndexUnavailable, err)
	}
	return nil
}

// SeedIndex loads the corpus file and upserts it into the index. Seeding is
// idempotent: point ids derive from career ids, so re-running replaces in
// place.
func SeedIndex(ctx context.Context, index *vector.EmbeddingIndex, corpusPath string) error {
	records, err := corpus.Load(corpusPath)
	if err != nil {
		return err
	}
	if err := index.Upsert(ctx, records); err != nil {
		return fmt.Errorf("seed index: %w", err)
	}
	slog.Info("career corpus seeded", slog.Int("records", len(records)), slog.String("path", corpusPath))
	return nil
}
