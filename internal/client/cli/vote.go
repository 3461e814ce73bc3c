package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
)

// Vote casts a ballot: vote <id> <sim|nao>.
func (a *App) Vote(ctx context.Context, args []string) error {
	id, err := parseTopicID(args[0])
	if err != nil {
		return err
	}
	choice, err := parseChoice(args[1])
	if err != nil {
		return err
	}

	if err := a.voteService.Cast(ctx, id, choice); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Vote %q registered for topic %d\n", choice, id)
	return nil
}

// Result prints the final tally of a closed topic: result <id>.
func (a *App) Result(ctx context.Context, args []string) error {
	id, err := parseTopicID(args[0])
	if err != nil {
		return err
	}

	t, err := a.voteService.Result(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Topic %d: Sim %s, Não %s (total %s)\n", id,
		humanize.Comma(t.Sim), humanize.Comma(t.Nao), humanize.Comma(t.Total()))
	return nil
}
