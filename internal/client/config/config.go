package config

import "time"

// Config holds runtime settings for the gvote CLI.
//
// Units: the intervals are time.Duration values.
type Config struct {
	APIBaseURL          string
	DatabasePath        string
	WatchInterval       time.Duration
	OnlineCheckInterval time.Duration
	ChangePollInterval  time.Duration
	LogFile             string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api"
	c.DatabasePath = "gvote.db"
	c.WatchInterval = 15 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.ChangePollInterval = 500 * time.Millisecond
	c.LogFile = ""
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
