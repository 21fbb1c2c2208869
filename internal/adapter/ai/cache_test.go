package ai

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/domain"
)

// countingClient records how many texts reach the underlying provider.
type countingClient struct {
	embedCalls int64
	embedTexts int64
	chatCalls  int64
	embedErr   error
}

func (c *countingClient) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	atomic.AddInt64(&c.embedCalls, 1)
	atomic.AddInt64(&c.embedTexts, int64(len(texts)))
	if c.embedErr != nil {
		return nil, c.embedErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

func (c *countingClient) ChatJSON(_ domain.Context, _, _ string, _ int) (string, error) {
	atomic.AddInt64(&c.chatCalls, 1)
	return "{}", nil
}

func TestEmbedCacheHit(t *testing.T) {
	t.Parallel()
	base := &countingClient{}
	cached := NewEmbedCache(base, 8)

	first, err := cached.Embed(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	second, err := cached.Embed(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&base.embedCalls))
	assert.Equal(t, int64(2), atomic.LoadInt64(&base.embedTexts))
}

func TestEmbedCachePartialMiss(t *testing.T) {
	t.Parallel()
	base := &countingClient{}
	cached := NewEmbedCache(base, 8)

	_, err := cached.Embed(context.Background(), []string{"alpha"})
	require.NoError(t, err)

	res, err := cached.Embed(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, []float32{5, 1}, res[0])
	assert.Equal(t, []float32{4, 1}, res[1])
	// Only "beta" went to the provider on the second call.
	assert.Equal(t, int64(3), atomic.LoadInt64(&base.embedTexts))
}

func TestEmbedCacheKeyTrimsWhitespace(t *testing.T) {
	t.Parallel()
	base := &countingClient{}
	cached := NewEmbedCache(base, 8)

	_, err := cached.Embed(context.Background(), []string{"alpha"})
	require.NoError(t, err)
	_, err = cached.Embed(context.Background(), []string{"  alpha  "})
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&base.embedCalls))
}

func TestEmbedCacheEvictsFIFO(t *testing.T) {
	t.Parallel()
	base := &countingClient{}
	cached := NewEmbedCache(base, 2)

	for _, text := range []string{"a", "b", "c"} {
		_, err := cached.Embed(context.Background(), []string{text})
		require.NoError(t, err)
	}
	// "a" was evicted when "c" arrived; "b" and "c" are still warm.
	_, err := cached.Embed(context.Background(), []string{"b", "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), atomic.LoadInt64(&base.embedTexts))

	_, err = cached.Embed(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), atomic.LoadInt64(&base.embedTexts))
}

func TestEmbedCachePropagatesError(t *testing.T) {
	t.Parallel()
	base := &countingClient{embedErr: domain.ErrProviderUnavailable}
	cached := NewEmbedCache(base, 8)

	_, err := cached.Embed(context.Background(), []string{"alpha"})
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestEmbedCacheChatPassthrough(t *testing.T) {
	t.Parallel()
	base := &countingClient{}
	cached := NewEmbedCache(base, 8)

	reply, err := cached.ChatJSON(context.Background(), "sys", "user", 100)
	require.NoError(t, err)
	assert.Equal(t, "{}", reply)
	assert.Equal(t, int64(1), atomic.LoadInt64(&base.chatCalls))
}

func TestNewEmbedCacheDisabled(t *testing.T) {
	t.Parallel()
	base := &countingClient{}
	assert.Equal(t, domain.AIClient(base), NewEmbedCache(base, 0))
	assert.Nil(t, NewEmbedCache(nil, 8))
}
