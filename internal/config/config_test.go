package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "https://api.siliconflow.cn/v1", cfg.Inference.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Inference.VideoPollInterval)
	assert.Equal(t, 12, cfg.Inference.VideoPollAttempts)
	assert.Equal(t, "BAAI/bge-m3", cfg.RAG.EmbeddingModel)
	assert.Equal(t, "deepseek-ai/DeepSeek-V3", cfg.RAG.AnswerModel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("VIDEO_POLL_INTERVAL_SECONDS", "2")
	t.Setenv("VIDEO_POLL_ATTEMPTS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Inference.VideoPollInterval)
	assert.Equal(t, 3, cfg.Inference.VideoPollAttempts)
}

func TestLoadInvalidInt(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "INFERENCE_API_KEY")

	cfg.Database.URL = "postgres://localhost/edu"
	cfg.Inference.APIKey = "key"
	assert.NoError(t, cfg.Validate())
}
