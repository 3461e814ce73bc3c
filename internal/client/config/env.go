package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvAPIBaseURL          = "GVOTE_API_URL"
	EnvDatabasePath        = "GVOTE_DB"
	EnvWatchInterval       = "GVOTE_WATCH_INTERVAL"
	EnvOnlineCheckInterval = "GVOTE_ONLINE_CHECK_INTERVAL"
	EnvLogFile             = "GVOTE_LOG_FILE"
	EnvLogLevel            = "GVOTE_LOG_LEVEL"
)

// parseEnv overlays Config with GVOTE_* variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment win over it. Intervals use time.ParseDuration
// syntax ("15s"). Panics on malformed intervals.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv(EnvAPIBaseURL); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv(EnvDatabasePath); ok && v != "" {
		cfg.DatabasePath = v
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		cfg.LogFile = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if d, ok := envDuration(EnvWatchInterval); ok {
		cfg.WatchInterval = d
	}
	if d, ok := envDuration(EnvOnlineCheckInterval); ok {
		cfg.OnlineCheckInterval = d
	}
}

func envDuration(key string) (time.Duration, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	return d, true
}
