package projection

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func TestComputeStatus_PartitionsTimeline(t *testing.T) {
	s := &models.VotingSession{TopicID: 1, OpenAt: t0, CloseAt: t0.Add(time.Minute)}

	tests := []struct {
		name string
		now  time.Time
		want models.Status
	}{
		{"no session", t0, ""},
		{"long before", t0.Add(-time.Hour), models.StatusAwaitingOpening},
		{"just before open", t0.Add(-time.Nanosecond), models.StatusAwaitingOpening},
		{"at open", t0, models.StatusOpen},
		{"inside", t0.Add(30 * time.Second), models.StatusOpen},
		{"at close", t0.Add(time.Minute), models.StatusOpen},
		{"just after close", t0.Add(time.Minute + time.Nanosecond), models.StatusClosed},
		{"long after", t0.Add(24 * time.Hour), models.StatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want == "" {
				assert.Equal(t, models.StatusAwaitingOpening, ComputeStatus(tt.now, nil))
				return
			}
			assert.Equal(t, tt.want, ComputeStatus(tt.now, s))
		})
	}
}

func TestComputeStatus_OneMinuteSession(t *testing.T) {
	s := &models.VotingSession{TopicID: 1, OpenAt: t0, CloseAt: t0.Add(1 * time.Minute)}

	assert.Equal(t, models.StatusOpen, ComputeStatus(t0.Add(30*time.Second), s))
	assert.Equal(t, models.StatusClosed, ComputeStatus(t0.Add(61*time.Second), s))
}

func TestComputeStatus_ExactlyOneStatusEverywhere(t *testing.T) {
	s := &models.VotingSession{TopicID: 1, OpenAt: t0, CloseAt: t0.Add(10 * time.Second)}

	for offset := -5 * time.Second; offset <= 15*time.Second; offset += 250 * time.Millisecond {
		now := t0.Add(offset)
		got := ComputeStatus(now, s)

		switch {
		case now.Before(s.OpenAt):
			assert.Equal(t, models.StatusAwaitingOpening, got, offset)
		case now.After(s.CloseAt):
			assert.Equal(t, models.StatusClosed, got, offset)
		default:
			assert.Equal(t, models.StatusOpen, got, offset)
		}
	}
}
