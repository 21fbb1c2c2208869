// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// Chat provider (Groq, OpenAI-compatible API)
	GroqAPIKey  string `env:"GROQ_API_KEY"`
	GroqBaseURL string `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	ChatModel   string `env:"CHAT_MODEL" envDefault:"llama-3.3-70b-versatile"`

	// Embeddings provider (OpenAI-compatible API)
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	EmbeddingsModel string `env:"EMBEDDINGS_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingsDim   int    `env:"EMBEDDINGS_DIM" envDefault:"1536"`

	// Vector store
	QdrantURL        string `env:"QDRANT_URL" envDefault:"http://localhost:6333"`
	QdrantAPIKey     string `env:"QDRANT_API_KEY"`
	QdrantCollection string `env:"QDRANT_COLLECTION" envDefault:"careers"`

	// Optional infrastructure; empty values disable the component.
	RedisAddr    string   `env:"REDIS_ADDR"`
	DBURL        string   `env:"DB_URL"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	CorpusPath string `env:"CORPUS_PATH" envDefault:"configs/corpus/careers.yaml"`
	PromptsDir string `env:"PROMPTS_DIR" envDefault:"prompts"`

	// AICallTimeout bounds every chat/embed call; a timeout is treated the
	// same as a provider failure and resolved by the documented fallback.
	AICallTimeout    time.Duration `env:"AI_CALL_TIMEOUT" envDefault:"20s"`
	ChatMaxTokens    int           `env:"CHAT_MAX_TOKENS" envDefault:"1500"`
	PromptTokenLimit int           `env:"PROMPT_TOKEN_LIMIT" envDefault:"4000"`
	MatchTopK        int           `env:"MATCH_TOP_K" envDefault:"4"`
	EmbedCacheSize   int           `env:"EMBED_CACHE_SIZE" envDefault:"2048"`

	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"career-compass"`

	// SessionTTL bounds how long an idle session is kept in memory.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"2h"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// FeedbackRepoEnabled reports whether feedback telemetry persistence is on.
func (c Config) FeedbackRepoEnabled() bool { return c.DBURL != "" }

// EventsEnabled reports whether the session event publisher is on.
func (c Config) EventsEnabled() bool { return len(c.KafkaBrokers) > 0 }
