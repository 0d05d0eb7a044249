package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "DASHGATE_"

// parseEnv overlays Config with DASHGATE_* environment variables. A .env file
// in the working directory is loaded first; variables already set in the
// process environment win over it. Malformed values are ignored.
func parseEnv(cfg *Config) {
	_ = godotenv.Load(".env")

	cfg.Environment = Environment(getString("ENV", string(cfg.Environment)))
	cfg.APIBaseURL = getString("API_BASE_URL", cfg.APIBaseURL)
	cfg.RequestTimeout = getDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.StoragePath = getString("STORAGE_PATH", cfg.StoragePath)
	cfg.Ephemeral = getBool("EPHEMERAL", cfg.Ephemeral)
	cfg.ClientID = getString("CLIENT_ID", cfg.ClientID)
	cfg.ClientSecret = getString("CLIENT_SECRET", cfg.ClientSecret)
	if v := os.Getenv(envPrefix + "SCOPES"); v != "" {
		cfg.Scopes = splitScopes(v)
	}
	cfg.LogLevel = getString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getString("LOG_FORMAT", cfg.LogFormat)
	cfg.LogBackend = getString("LOG_BACKEND", cfg.LogBackend)
}

func getString(key, fallback string) string {
	if val := os.Getenv(envPrefix + key); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(envPrefix + key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

// getDuration accepts Go durations ("5s") and plain seconds ("5").
func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(envPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
