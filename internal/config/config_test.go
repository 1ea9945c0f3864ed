package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawlab/intake-agent/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.ModelName)
	assert.Equal(t, float32(0.7), cfg.Temperature)
	assert.Equal(t, int32(2048), cfg.MaxOutputTokens)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, "intake_session", cfg.SessionCookie)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.False(t, cfg.UseMockLLM)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("INTAKE_PORT", "9090")
	t.Setenv("INTAKE_GEMINI_API_KEY", "test-key")
	t.Setenv("INTAKE_MODEL_NAME", "gemini-2.5-pro")
	t.Setenv("INTAKE_SESSION_TTL", "2h")
	t.Setenv("INTAKE_STORAGE_BACKEND", "bolt")
	t.Setenv("INTAKE_USE_MOCK_LLM", "true")
	t.Setenv("INTAKE_CALENDAR_ID", "cal@group.calendar.google.com")
	t.Setenv("INTAKE_ALLOWED_ORIGINS", "https://lawlab.example,https://staging.lawlab.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.ModelName)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "bolt", cfg.StorageBackend)
	assert.True(t, cfg.UseMockLLM)
	assert.Equal(t, "cal@group.calendar.google.com", cfg.CalendarID)
	assert.Equal(t,
		[]string{"https://lawlab.example", "https://staging.lawlab.example"},
		cfg.AllowedOrigins)
}
