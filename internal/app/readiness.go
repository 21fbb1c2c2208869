package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpserver "github.com/fairyhunter13/career-compass/internal/adapter/httpserver"
	"github.com/fairyhunter13/career-compass/internal/adapter/vector/qdrant"
	"github.com/fairyhunter13/career-compass/internal/domain"
)

// ReadinessChecks assembles the readyz probe set. Optional dependencies
// (nil) are omitted rather than reported as failing.
func ReadinessChecks(qd *qdrant.Client, rdb *redis.Client, pool *pgxpool.Pool) map[string]httpserver.ReadinessChecker {
	checks := map[string]httpserver.ReadinessChecker{
		"qdrant": func(ctx domain.Context) error {
			return qd.Healthz(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx domain.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	if pool != nil {
		checks["postgres"] = func(ctx domain.Context) error {
			return pool.Ping(ctx)
		}
	}
	return checks
}
