package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"github.com/dmitrijs2005/gophvote/internal/client/projection"
)

type tallyFunc func(topicID int64) (models.VoteTally, bool)

// renderTopics writes views as an aligned table. ENDS is relative to now and
// RESULT is filled only when a tally is known.
func renderTopics(w io.Writer, views []projection.TopicView, tally tallyFunc, now time.Time) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "No topics yet")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tENDS\tRESULT")
	for _, v := range views {
		ends := "-"
		if v.EndsAt != nil {
			ends = humanize.RelTime(*v.EndsAt, now, "ago", "from now")
		}
		result := "-"
		if tally != nil {
			if t, ok := tally(v.ID); ok {
				result = fmt.Sprintf("Sim %s / Não %s", humanize.Comma(t.Sim), humanize.Comma(t.Nao))
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", v.ID, v.Name, v.Status, ends, result)
	}
	return tw.Flush()
}
