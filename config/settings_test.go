package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_ADDR", "LOG_LEVEL", "LLM_PROVIDER", "ARTIFACT_TTL", "MAX_UPLOAD_BYTES", "VALKEY_TLS"} {
		t.Setenv(key, "")
	}

	s := Load()

	assert.Equal(t, "dev", s.Env)
	assert.Equal(t, DEFAULT_HTTP_ADDR, s.HTTPAddr)
	assert.Equal(t, slog.LevelInfo, s.LogLevel)
	assert.Equal(t, DEFAULT_LLM_PROVIDER, s.LLMProvider)
	assert.Equal(t, DEFAULT_ARTIFACT_TTL, s.ArtifactTTL)
	assert.Equal(t, int64(DEFAULT_MAX_UPLOAD_BYTES), s.MaxUploadBytes)
	assert.False(t, s.ValkeyTLS)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("ARTIFACT_TTL", "5m")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("VALKEY_TLS", "true")

	s := Load()

	assert.Equal(t, ":9000", s.HTTPAddr)
	assert.Equal(t, slog.LevelDebug, s.LogLevel)
	assert.Equal(t, "openai", s.LLMProvider)
	assert.Equal(t, 5*time.Minute, s.ArtifactTTL)
	assert.Equal(t, int64(1024), s.MaxUploadBytes)
	assert.True(t, s.ValkeyTLS)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("ARTIFACT_TTL", "soon")
	t.Setenv("MAX_UPLOAD_BYTES", "-3")
	t.Setenv("LOG_LEVEL", "loud")

	s := Load()

	assert.Equal(t, DEFAULT_ARTIFACT_TTL, s.ArtifactTTL)
	assert.Equal(t, int64(DEFAULT_MAX_UPLOAD_BYTES), s.MaxUploadBytes)
	assert.Equal(t, slog.LevelInfo, s.LogLevel)
}
