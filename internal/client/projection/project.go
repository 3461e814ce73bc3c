package projection

import (
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"github.com/dmitrijs2005/gophvote/internal/client/sessions"
)

// TopicView is a topic enriched with its derived status.
type TopicView struct {
	models.Topic
	Status models.Status
	// EndsAt is set when the end of the voting window is known locally.
	EndsAt *time.Time
}

// Project combines topics with the cached sessions at instant now.
//
// A cached entry only exists for a session that was already opened, so its
// end time is enough to tell Open from Closed. Without one, the status the
// topic carries (remote-confirmed or locally marked) wins over the
// AwaitingOpening default.
func Project(topics []models.Topic, cached sessions.Map, now time.Time) []TopicView {
	views := make([]TopicView, 0, len(topics))
	for _, t := range topics {
		v := TopicView{Topic: t, Status: models.StatusAwaitingOpening}

		if end, ok := cached[t.ID]; ok {
			end := end
			v.Status = ComputeStatus(now, &models.VotingSession{TopicID: t.ID, CloseAt: end})
			v.EndsAt = &end
		} else if s, ok := models.ParseStatus(string(t.Status)); ok {
			v.Status = s
		}

		views = append(views, v)
	}
	return views
}
