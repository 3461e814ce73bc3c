// Package projection derives what the user sees: the status of each topic's
// voting session, computed from wall-clock time, the cached sessions and the
// remote topic listing.
package projection

import (
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/models"
)

// ComputeStatus maps a session window onto the three statuses. Both
// boundaries belong to Open.
func ComputeStatus(now time.Time, s *models.VotingSession) models.Status {
	switch {
	case s == nil:
		return models.StatusAwaitingOpening
	case now.Before(s.OpenAt):
		return models.StatusAwaitingOpening
	case now.After(s.CloseAt):
		return models.StatusClosed
	default:
		return models.StatusOpen
	}
}
