package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/career-compass/internal/domain"
)

// FeedbackRepo implements domain.FeedbackRepository over Postgres.
type FeedbackRepo struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepo constructs the repository.
func NewFeedbackRepo(pool *pgxpool.Pool) *FeedbackRepo {
	return &FeedbackRepo{pool: pool}
}

// Migrate creates the feedback table when it does not exist.
func (r *FeedbackRepo) Migrate(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS session_feedback (
    id          BIGSERIAL PRIMARY KEY,
    session_id  TEXT        NOT NULL,
    career_id   TEXT        NOT NULL DEFAULT '',
    rating      SMALLINT    NOT NULL CHECK (rating BETWEEN 1 AND 5),
    email       TEXT        NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("op=feedback.Migrate: %w", err)
	}
	return nil
}

// Save inserts one feedback row. Repeated ratings for the same session are
// kept as separate rows; the latest row wins for reporting.
func (r *FeedbackRepo) Save(ctx domain.Context, f domain.Feedback) error {
	const q = `
INSERT INTO session_feedback (session_id, career_id, rating, email, created_at)
VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.pool.Exec(ctx, q, f.SessionID, f.CareerID, f.Rating, f.Email, f.CreatedAt); err != nil {
		return fmt.Errorf("op=feedback.Save: %w", err)
	}
	return nil
}

var _ domain.FeedbackRepository = (*FeedbackRepo)(nil)
