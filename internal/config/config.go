package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(NewConfig),
)

// Config holds all application configuration
type Config struct {
	// Server settings
	ServerPort    int    `env:"SERVER_PORT" envDefault:"3002"`
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:"0.0.0.0"`
	Environment   string `env:"ENVIRONMENT" envDefault:"local"`
	Debug         bool   `env:"DEBUG" envDefault:"false"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	// Database settings
	Database DatabaseConfig

	// JWT authentication
	Auth AuthConfig

	// Embeddings configuration
	Embeddings EmbeddingsConfig

	// LLM configuration (tag suggestion, RAG answers)
	LLM LLMConfig

	// Similarity / auto-linking configuration
	Similarity SimilarityConfig

	// Storage configuration (file uploads)
	Storage StorageConfig

	// Background maintenance jobs
	Scheduler SchedulerConfig

	// Server timeouts
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port         int           `env:"POSTGRES_PORT" envDefault:"5432"`
	User         string        `env:"POSTGRES_USER" envDefault:"mindweave"`
	Password     string        `env:"POSTGRES_PASSWORD" envDefault:""`
	Database     string        `env:"POSTGRES_DB" envDefault:"mindweave"`
	SSLMode      string        `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MaxIdleTime  time.Duration `env:"DB_MAX_IDLE_TIME" envDefault:"5m"`
	QueryDebug   bool          `env:"DB_QUERY_DEBUG" envDefault:"false"`
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// AuthConfig holds JWT authentication settings
type AuthConfig struct {
	// Secret signs access tokens (HS256). Required outside local development.
	Secret string `env:"JWT_SECRET" envDefault:""`

	// TokenTTL is the access token lifetime
	TokenTTL time.Duration `env:"JWT_TOKEN_TTL" envDefault:"24h"`

	// Issuer claim stamped on issued tokens
	Issuer string `env:"JWT_ISSUER" envDefault:"mindweave"`

	// BcryptCost for password hashing. 0 uses the library default.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"0"`
}

// IsConfigured returns true if a signing secret is set
func (a *AuthConfig) IsConfigured() bool {
	return a.Secret != ""
}

// EmbeddingsConfig holds embedding provider configuration
type EmbeddingsConfig struct {
	// Embedding model name
	Model string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-004"`

	// Embedding dimension (768 for text-embedding-004)
	Dimension int `env:"EMBEDDING_DIMENSION" envDefault:"768"`

	// Google API Key for the Generative AI API
	GoogleAPIKey string `env:"GOOGLE_API_KEY" envDefault:""`

	// Disable embeddings network calls (for testing)
	NetworkDisabled bool `env:"EMBEDDINGS_NETWORK_DISABLED" envDefault:"false"`
}

// IsEnabled returns true if embeddings are configured
func (e *EmbeddingsConfig) IsEnabled() bool {
	if e.NetworkDisabled {
		return false
	}
	return e.GoogleAPIKey != ""
}

// LLMConfig holds LLM (chat completion) configuration
type LLMConfig struct {
	// Chat model name
	Model string `env:"LLM_MODEL" envDefault:"gemini-2.5-flash"`

	// Max output tokens for chat completions
	MaxOutputTokens int `env:"LLM_MAX_OUTPUT_TOKENS" envDefault:"8192"`

	// Temperature for chat completions (0.0-1.0)
	Temperature float64 `env:"LLM_TEMPERATURE" envDefault:"0"`

	// Request timeout
	Timeout time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`

	// Google API Key for the Generative AI API
	GoogleAPIKey string `env:"GOOGLE_API_KEY" envDefault:""`

	// Disable LLM network calls (for testing)
	NetworkDisabled bool `env:"LLM_NETWORK_DISABLED" envDefault:"false"`
}

// IsEnabled returns true if the LLM is configured
func (l *LLMConfig) IsEnabled() bool {
	if l.NetworkDisabled {
		return false
	}
	return l.GoogleAPIKey != ""
}

// Embedding bases. Every stored vector belongs to exactly one.
const (
	BasisContent = "content"
	BasisSummary = "summary"
)

// SimilarityConfig holds thresholds and limits for the auto-link engine
type SimilarityConfig struct {
	// Threshold is the global minimum similarity score for creating an edge
	Threshold float64 `env:"SIMILARITY_THRESHOLD" envDefault:"0.5"`

	// ContentThreshold overrides Threshold for content-basis searches.
	// Negative means unset.
	ContentThreshold float64 `env:"SIMILARITY_THRESHOLD_CONTENT" envDefault:"-1"`

	// SummaryThreshold overrides Threshold for summary-basis searches.
	// Negative means unset.
	SummaryThreshold float64 `env:"SIMILARITY_THRESHOLD_SUMMARY" envDefault:"-1"`

	// TopK is how many neighbours each similarity search requests
	TopK int `env:"SIMILARITY_TOP_K" envDefault:"6"`
}

// ThresholdFor resolves the effective threshold for an embedding basis,
// falling back to the global threshold when no per-basis override is set.
func (s *SimilarityConfig) ThresholdFor(basis string) float64 {
	switch basis {
	case BasisContent:
		if s.ContentThreshold >= 0 {
			return s.ContentThreshold
		}
	case BasisSummary:
		if s.SummaryThreshold >= 0 {
			return s.SummaryThreshold
		}
	}
	return s.Threshold
}

// StorageConfig holds storage (MinIO/S3) configuration
type StorageConfig struct {
	// Endpoint is the MinIO/S3 endpoint URL
	Endpoint string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	// AccessKeyID is the access key ID
	AccessKeyID string `env:"MINIO_ACCESS_KEY" envDefault:""`
	// SecretAccessKey is the secret access key
	SecretAccessKey string `env:"MINIO_SECRET_KEY" envDefault:""`
	// Bucket is the bucket name
	Bucket string `env:"MINIO_BUCKET" envDefault:"mindweave"`
	// UseSSL determines if SSL should be used
	UseSSL bool `env:"MINIO_USE_SSL" envDefault:"false"`
	// Region is the bucket region (for S3 compatibility)
	Region string `env:"MINIO_REGION" envDefault:"us-east-1"`
}

// IsConfigured returns true if storage is configured
func (s *StorageConfig) IsConfigured() bool {
	return s.Endpoint != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}

// SchedulerConfig holds background maintenance job settings
type SchedulerConfig struct {
	// Enabled toggles the cron scheduler
	Enabled bool `env:"SCHEDULER_ENABLED" envDefault:"true"`

	// VectorReconcileSpec is the cron spec for the stale-vector sweep
	VectorReconcileSpec string `env:"SCHEDULER_VECTOR_RECONCILE_SPEC" envDefault:"@every 1h"`

	// VectorReconcileBatch caps how many notes a single sweep re-embeds
	VectorReconcileBatch int `env:"SCHEDULER_VECTOR_RECONCILE_BATCH" envDefault:"50"`
}

// NewConfig loads configuration from environment variables
func NewConfig(log *slog.Logger) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	log.Info("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.ServerPort),
		slog.String("db_host", cfg.Database.Host),
		slog.Float64("similarity_threshold", cfg.Similarity.Threshold),
	)

	return cfg, nil
}
