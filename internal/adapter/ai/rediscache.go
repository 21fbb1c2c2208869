package ai

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/career-compass/internal/domain"
)

// redisEmbedCache caches embedding vectors in Redis so warm query embeddings
// survive process restarts. Cache errors degrade to the underlying client;
// they never fail the call.
type redisEmbedCache struct {
	base domain.AIClient
	rdb  *redis.Client
	ttl  time.Duration
}

// NewRedisEmbedCache wraps base with a Redis-backed embedding cache. If rdb
// is nil, base is returned unmodified.
func NewRedisEmbedCache(base domain.AIClient, rdb *redis.Client, ttl time.Duration) domain.AIClient {
	if rdb == nil || base == nil {
		return base
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisEmbedCache{base: base, rdb: rdb, ttl: ttl}
}

func (c *redisEmbedCache) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	res := make([][]float32, len(texts))
	missIdx := make([]int, 0)
	missTexts := make([]string, 0)
	for i, t := range texts {
		b, err := c.rdb.Get(ctx, redisKey(t)).Bytes()
		if err == nil {
			var v []float32
			if jerr := json.Unmarshal(b, &v); jerr == nil && len(v) > 0 {
				res[i] = v
				continue
			}
		} else if !errors.Is(err, redis.Nil) {
			slog.Debug("embed cache get failed", slog.Any("error", err))
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missIdx) > 0 {
		vecs, err := c.base.Embed(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		for j, idx := range missIdx {
			res[idx] = vecs[j]
			if b, jerr := json.Marshal(vecs[j]); jerr == nil {
				if serr := c.rdb.Set(ctx, redisKey(missTexts[j]), b, c.ttl).Err(); serr != nil {
					slog.Debug("embed cache set failed", slog.Any("error", serr))
				}
			}
		}
	}
	return res, nil
}

func (c *redisEmbedCache) ChatJSON(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	return c.base.ChatJSON(ctx, systemPrompt, userPrompt, maxTokens)
}

func redisKey(text string) string {
	return "embed:" + keyFor(text)
}
