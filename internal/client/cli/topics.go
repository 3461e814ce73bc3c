package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophvote/internal/client/client"
)

// Topics reloads the topic list and prints it with derived statuses. When
// the server is unreachable the last known list is shown instead.
func (a *App) Topics(ctx context.Context) error {
	if _, err := a.topicService.List(ctx); err != nil {
		if !errors.Is(err, client.ErrUnavailable) {
			return err
		}
		fmt.Fprintln(a.out, "server unavailable, showing cached topics")
	}
	return a.printTopics(ctx)
}

func (a *App) printTopics(ctx context.Context) error {
	views, err := a.topicService.Views(ctx)
	if err != nil {
		return err
	}
	return renderTopics(a.out, views, a.board.Tally, a.now())
}

// AddTopic creates a topic. The name is taken from args or prompted for.
func (a *App) AddTopic(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		var err error
		name, err = GetSimpleText(a.reader, "-Enter topic name", a.out)
		if err != nil {
			return err
		}
	}

	t, err := a.topicService.Create(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Topic %d created: %s\n", t.ID, t.Name)
	return nil
}

// Refresh expires ended sessions right away and reprints the list.
func (a *App) Refresh(ctx context.Context) error {
	expired, err := a.watcher.Reconcile(ctx)
	if err != nil {
		return err
	}
	if len(expired) > 0 {
		fmt.Fprintf(a.out, "%d session(s) closed\n", len(expired))
	}
	return a.Topics(ctx)
}
