package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	DEFAULT_HTTP_ADDR        = ":8501"
	DEFAULT_LLM_PROVIDER     = "gemini"
	DEFAULT_ARTIFACT_TTL     = 30 * time.Minute
	DEFAULT_MAX_UPLOAD_BYTES = 50 << 20
)

// Settings is the process-wide configuration read from the environment.
// Nothing here is per run; run options live in models.RunConfig.
type Settings struct {
	Env      string
	HTTPAddr string
	LogLevel slog.Level

	LLMProvider string
	LLMModel    string
	// LLMAPIKey is only consulted by the CLI. The web UI takes the key
	// from the form on every run.
	LLMAPIKey string

	FontPath       string
	TaggerEndpoint string

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool

	ArtifactTTL    time.Duration
	MaxUploadBytes int64
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("[Config] Invalid duration, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Duration("default", defaultValue))
		return defaultValue
	}
	return d
}

func getEnvInt64(key string, defaultValue int64) int64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("[Config] Invalid integer, using default",
			slog.String("key", key),
			slog.String("value", raw))
		return defaultValue
	}
	return n
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads Settings from the environment. Call LoadEnv first when an
// env file should be honored.
func Load() Settings {
	return Settings{
		Env:            getEnv("APP_ENV", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", DEFAULT_HTTP_ADDR),
		LogLevel:       parseLevel(getEnv("LOG_LEVEL", "info")),
		LLMProvider:    getEnv("LLM_PROVIDER", DEFAULT_LLM_PROVIDER),
		LLMModel:       getEnv("LLM_MODEL", ""),
		LLMAPIKey:      getEnv("LLM_API_KEY", ""),
		FontPath:       getEnv("FONT_PATH", ""),
		TaggerEndpoint: getEnv("TAGGER_ENDPOINT", ""),
		ValkeyAddress:  getEnv("VALKEY_INIT_ADDRESS", ""),
		ValkeyPassword: getEnv("VALKEY_PASSWORD", ""),
		ValkeyTLS:      getEnv("VALKEY_TLS", "false") == "true",
		ArtifactTTL:    getEnvDuration("ARTIFACT_TTL", DEFAULT_ARTIFACT_TTL),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", DEFAULT_MAX_UPLOAD_BYTES),
	}
}
