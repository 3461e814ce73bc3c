package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the remote API
//	-d string   path of the local database file
//	-w int      session watcher interval in seconds
//	-i int      online check interval in seconds
//	-l string   log file; enables the rotating zerolog backend
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-w", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the voting API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file (rotated)")
	watchInterval := fs.Int("w", int(cfg.WatchInterval.Seconds()), "session watcher interval (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "w":
			cfg.WatchInterval = time.Duration(*watchInterval) * time.Second
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
}
