package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/flagx"
	"github.com/dmitrijs2005/gophvote/internal/timex"
	"github.com/goccy/go-json"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "15s" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	DatabasePath        string         `json:"database_path"`
	WatchInterval       timex.Duration `json:"watch_interval"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	ChangePollInterval  timex.Duration `json:"change_poll_interval"`
	LogFile             string         `json:"log_file"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Absent keys leave the current values alone. Panics on read
// or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	setDuration(&cfg.WatchInterval, jc.WatchInterval)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setDuration(&cfg.ChangePollInterval, jc.ChangePollInterval)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration > 0 {
		*dst = v.Duration
	}
}
