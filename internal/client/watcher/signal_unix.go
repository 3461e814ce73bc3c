//go:build !windows

package watcher

import (
	"os"
	"os/signal"
	"syscall"
)

// Resumed fires when the process is continued after being stopped (SIGCONT),
// for example after Ctrl-Z and fg.
func Resumed() Trigger {
	return TriggerFunc(func() (<-chan struct{}, func()) {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGCONT)
		return forward(sig, func() { signal.Stop(sig) })
	})
}
