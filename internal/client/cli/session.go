package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Open starts a voting session: open <id> <minutes>.
func (a *App) Open(ctx context.Context, args []string) error {
	id, err := parseTopicID(args[0])
	if err != nil {
		return err
	}
	minutes, err := parseMinutes(args[1])
	if err != nil {
		return err
	}

	vs, err := a.sessionService.Open(ctx, id, minutes)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Session for topic %d is open until %s (%s)\n",
		id, vs.CloseAt.Local().Format(time.DateTime), humanize.RelTime(vs.CloseAt, a.now(), "ago", "from now"))
	return nil
}

// Session prints the server's window for a topic: session <id>.
func (a *App) Session(ctx context.Context, args []string) error {
	id, err := parseTopicID(args[0])
	if err != nil {
		return err
	}

	vs, err := a.sessionService.Status(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Topic %d: opened %s, closes %s (%s)\n", id,
		vs.OpenAt.Local().Format(time.DateTime),
		vs.CloseAt.Local().Format(time.DateTime),
		humanize.RelTime(vs.CloseAt, a.now(), "ago", "from now"))
	return nil
}
