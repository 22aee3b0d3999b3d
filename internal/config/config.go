package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Inference InferenceConfig
	Storage   StorageConfig
	RAG       RAGConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConns       int
	MinConns       int
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

// InferenceConfig configures the external inference API (OpenAI-compatible
// chat/embeddings plus provider-specific image/speech/video endpoints) and
// the optional Anthropic provider for claude-* models.
type InferenceConfig struct {
	APIKey       string
	BaseURL      string
	AnthropicKey string
	MaxRetries   int

	VideoPollInterval time.Duration
	VideoPollAttempts int
}

type StorageConfig struct {
	SupabaseURL string
	SupabaseKey string
	Bucket      string
}

type RAGConfig struct {
	EmbeddingModel string
	AnswerModel    string
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxRetries, err := getEnvInt("INFERENCE_MAX_RETRIES", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid INFERENCE_MAX_RETRIES: %w", err)
	}

	pollSeconds, err := getEnvInt("VIDEO_POLL_INTERVAL_SECONDS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid VIDEO_POLL_INTERVAL_SECONDS: %w", err)
	}

	pollAttempts, err := getEnvInt("VIDEO_POLL_ATTEMPTS", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid VIDEO_POLL_ATTEMPTS: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxConns:       maxConns,
			MinConns:       minConns,
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),
		},
		Inference: InferenceConfig{
			APIKey:            getEnv("INFERENCE_API_KEY", ""),
			BaseURL:           getEnv("INFERENCE_BASE_URL", "https://api.siliconflow.cn/v1"),
			AnthropicKey:      getEnv("ANTHROPIC_API_KEY", ""),
			MaxRetries:        maxRetries,
			VideoPollInterval: time.Duration(pollSeconds) * time.Second,
			VideoPollAttempts: pollAttempts,
		},
		Storage: StorageConfig{
			SupabaseURL: getEnv("SUPABASE_URL", ""),
			SupabaseKey: getEnv("SUPABASE_SERVICE_KEY", ""),
			Bucket:      getEnv("STORAGE_BUCKET", "uploads"),
		},
		RAG: RAGConfig{
			EmbeddingModel: getEnv("RAG_EMBEDDING_MODEL", "BAAI/bge-m3"),
			AnswerModel:    getEnv("RAG_ANSWER_MODEL", "deepseek-ai/DeepSeek-V3"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Inference.APIKey == "" {
		missing = append(missing, "INFERENCE_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
