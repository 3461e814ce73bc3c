package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root restores the stored login, starts the background watchers and runs
// the REPL until the user leaves. The session watcher is stopped before Root
// returns.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to gvote (type 'help' for commands)")

	if name, err := a.authService.CurrentUser(ctx); err == nil && name != "" {
		a.setUserName(name)
	}

	if a.config.OnlineCheckInterval > 0 {
		a.checkOnline(ctx)
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	} else {
		a.setMode(ctx, ModeDisabled)
	}

	if _, err := a.topicService.List(ctx); err != nil {
		a.logger.Warn(ctx, "initial topic listing failed", "error", err)
	}

	h := a.watcher.Start(ctx)
	defer h.Stop()

	runREPL(ctx, a, a.getStatus, a.reader, a.hub.Publish)
}
