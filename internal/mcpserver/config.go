package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Contract cache settings.
	CacheEnabled    bool
	CacheMaxSize    int
	CacheFileTTL    time.Duration
	CacheURLTTL     time.Duration
	CacheContentTTL time.Duration

	// Inline content limit, in bytes.
	MaxInlineSize int64
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASGUARD_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:    envBool("OASGUARD_CACHE_ENABLED", true),
		CacheMaxSize:    envInt("OASGUARD_CACHE_MAX_SIZE", 10),
		CacheFileTTL:    envDuration("OASGUARD_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:     envDuration("OASGUARD_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL: envDuration("OASGUARD_CACHE_CONTENT_TTL", 15*time.Minute),
		MaxInlineSize:   int64(envInt("OASGUARD_MAX_INLINE_SIZE", 4<<20)),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
