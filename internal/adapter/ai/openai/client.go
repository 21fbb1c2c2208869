// Package openai implements the AI client against OpenAI-compatible APIs:
// Groq for chat completions and OpenAI for embeddings.
package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/config"
	"github.com/fairyhunter13/career-compass/internal/domain"
)

// Client implements domain.AIClient. Calls are single-attempt: the session
// loop is interactive, so a failed provider call surfaces immediately and the
// caller takes its deterministic fallback instead of waiting on retries.
type Client struct {
	cfg     config.Config
	chatHC  *http.Client
	embedHC *http.Client
}

// New constructs a Client with per-call timeouts from config.
func New(cfg config.Config) *Client {
	return &Client{
		cfg:     cfg,
		chatHC:  &http.Client{Timeout: cfg.AICallTimeout},
		embedHC: &http.Client{Timeout: cfg.AICallTimeout},
	}
}

// ChatJSON calls Groq chat completions and returns the raw message content.
func (c *Client) ChatJSON(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if c.cfg.GroqAPIKey == "" {
		return "", fmt.Errorf("%w: GROQ_API_KEY missing", domain.ErrInvalidArgument)
	}
	body := map[string]any{
		"model":       c.cfg.ChatModel,
		"temperature": 0.2,
		"max_tokens":  maxTokens,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	}
	b, _ := json.Marshal(body)

	start := time.Now()
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GroqBaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: build chat request: %v", domain.ErrInternal, err)
	}
	r.Header.Set("Authorization", "Bearer "+c.cfg.GroqAPIKey)
	r.Header.Set("Content-Type", "application/json")

	resp, err := c.chatHC.Do(r)
	observability.AIRequestsTotal.WithLabelValues("groq", "chat").Inc()
	observability.AIRequestDuration.WithLabelValues("groq", "chat").Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Warn("chat provider unreachable", slog.String("provider", "groq"), slog.Any("error", err))
		return "", fmt.Errorf("%w: chat: %v", domain.ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: chat read body: %v", domain.ErrProviderUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(bodyBytes)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		slog.Warn("chat provider non-2xx",
			slog.String("provider", "groq"),
			slog.Int("status", resp.StatusCode),
			slog.String("model", c.cfg.ChatModel),
			slog.String("body", snippet))
		return "", fmt.Errorf("%w: chat status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		return "", fmt.Errorf("%w: chat decode: %v", domain.ErrProviderUnavailable, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", domain.ErrProviderUnavailable)
	}
	return out.Choices[0].Message.Content, nil
}

// Embed calls OpenAI embeddings for a batch of texts. The returned vectors
// are index-aligned with the input.
func (c *Client) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	if c.cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY missing", domain.ErrInvalidArgument)
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: empty embed batch", domain.ErrInvalidArgument)
	}
	body := map[string]any{
		"model": c.cfg.EmbeddingsModel,
		"input": texts,
	}
	b, _ := json.Marshal(body)

	start := time.Now()
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenAIBaseURL+"/embeddings", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: build embed request: %v", domain.ErrInternal, err)
	}
	r.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
	r.Header.Set("Content-Type", "application/json")

	resp, err := c.embedHC.Do(r)
	observability.AIRequestsTotal.WithLabelValues("openai", "embed").Inc()
	observability.AIRequestDuration.WithLabelValues("openai", "embed").Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Warn("embeddings provider unreachable", slog.String("provider", "openai"), slog.Any("error", err))
		return nil, fmt.Errorf("%w: embed: %v", domain.ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: embed read body: %v", domain.ErrProviderUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(bodyBytes)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		slog.Warn("embeddings provider non-2xx",
			slog.String("provider", "openai"),
			slog.Int("status", resp.StatusCode),
			slog.String("model", c.cfg.EmbeddingsModel),
			slog.String("body", snippet))
		return nil, fmt.Errorf("%w: embed status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}

	var out struct {
		Data []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		return nil, fmt.Errorf("%w: embed decode: %v", domain.ErrProviderUnavailable, err)
	}
	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("%w: embed returned %d vectors for %d inputs", domain.ErrProviderUnavailable, len(out.Data), len(texts))
	}
	vecs := make([][]float32, len(texts))
	for _, d := range out.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, fmt.Errorf("%w: embed index %d out of range", domain.ErrProviderUnavailable, d.Index)
		}
		if c.cfg.EmbeddingsDim > 0 && len(d.Embedding) != c.cfg.EmbeddingsDim {
			return nil, fmt.Errorf("%w: embed dim %d, want %d", domain.ErrProviderUnavailable, len(d.Embedding), c.cfg.EmbeddingsDim)
		}
		vecs[d.Index] = d.Embedding
	}
	for i, v := range vecs {
		if v == nil {
			return nil, fmt.Errorf("%w: embed missing vector for input %d", domain.ErrProviderUnavailable, i)
		}
	}
	return vecs, nil
}

var _ domain.AIClient = (*Client)(nil)
