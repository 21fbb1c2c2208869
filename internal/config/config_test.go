package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "careers", cfg.QdrantCollection)
	assert.Equal(t, 1536, cfg.EmbeddingsDim)
	assert.Equal(t, 4, cfg.MatchTopK)
	assert.Equal(t, 20*time.Second, cfg.AICallTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.FeedbackRepoEnabled())
	assert.False(t, cfg.EventsEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_URL", "postgres://localhost/careers")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("MATCH_TOP_K", "6")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 6, cfg.MatchTopK)
	assert.True(t, cfg.FeedbackRepoEnabled())
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.EventsEnabled())
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.IsDev())
	assert.False(t, cfg.IsProd())
}
