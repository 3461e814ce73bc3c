// Package config loads runtime configuration for the gvote CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: GVOTE_* variables, optionally from a .env file.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the remote API
//	-d string   local database file
//	-w int      session watcher interval (seconds)
//	-i int      online status check interval (seconds)
//	-l string   log file
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "15s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080/api",
//	  "database_path": "gvote.db",
//	  "watch_interval": "15s",
//	  "online_check_interval": "3s",
//	  "change_poll_interval": "500ms",
//	  "log_file": "gvote.log",
//	  "log_level": "debug"
//	}
package config
