package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd", "-a", "http://10.0.0.1:9090/api", "-d", "x.db", "-w", "20", "-i", "10", "-l", "gvote.log"},
			expected: &Config{APIBaseURL: "http://10.0.0.1:9090/api", DatabasePath: "x.db", WatchInterval: 20 * time.Second, OnlineCheckInterval: 10 * time.Second, LogFile: "gvote.log"}},
		{name: "unset intervals are kept", args: []string{"cmd", "-a", "http://h/api"},
			expected: &Config{APIBaseURL: "http://h/api", WatchInterval: 1500 * time.Millisecond}},
		{name: "foreign flags are ignored", args: []string{"cmd", "-x", "1", "-d", "y.db"},
			expected: &Config{DatabasePath: "y.db", WatchInterval: 1500 * time.Millisecond}},
		{name: "incorrect check interval", args: []string{"cmd", "-i", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{WatchInterval: 1500 * time.Millisecond}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
