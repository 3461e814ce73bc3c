package projection

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"github.com/dmitrijs2005/gophvote/internal/client/sessions"
)

// ClosedHold is how long a local Closed mark outranks the remote listing.
// It covers listings fetched just before the server noticed the expiry.
const ClosedHold = 30 * time.Second

// Board holds the application's view state: the last topic listing, local
// status marks, final tallies and server-confirmed session windows. It is
// created once by the app and handed to the services and the watcher.
type Board struct {
	mu       sync.RWMutex
	now      func() time.Time
	topics   []models.Topic
	closed   map[int64]time.Time
	tallies  map[int64]models.VoteTally
	sessions map[int64]models.VotingSession
}

type BoardOption func(*Board)

// WithClock sets the time source used to age Closed marks.
func WithClock(now func() time.Time) BoardOption {
	return func(b *Board) { b.now = now }
}

func NewBoard(opts ...BoardOption) *Board {
	b := &Board{
		now:      time.Now,
		closed:   make(map[int64]time.Time),
		tallies:  make(map[int64]models.VoteTally),
		sessions: make(map[int64]models.VotingSession),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Replace installs a freshly fetched listing. A topic this client saw expire
// stays Closed for ClosedHold after the mark; later listings are taken as
// they come, so a session reopened elsewhere shows up.
func (b *Board) Replace(topics []models.Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.topics = make([]models.Topic, len(topics))
	copy(b.topics, topics)
	for i := range b.topics {
		id := b.topics[i].ID
		markedAt, ok := b.closed[id]
		if !ok {
			continue
		}
		if now.Before(markedAt.Add(ClosedHold)) {
			b.topics[i].Status = models.StatusClosed
			continue
		}
		delete(b.closed, id)
	}
}

// Add appends a newly created topic.
func (b *Board) Add(t models.Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.topics = append(b.topics, t)
}

// MarkOpen flags a topic Open right after a session was opened, without
// waiting for the next listing.
func (b *Board) MarkOpen(topicID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.closed, topicID)
	b.setStatus(topicID, models.StatusOpen)
}

// MarkClosed downgrades expired topics.
func (b *Board) MarkClosed(topicIDs ...int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for _, id := range topicIDs {
		b.closed[id] = now
		b.setStatus(id, models.StatusClosed)
	}
}

func (b *Board) setStatus(topicID int64, s models.Status) {
	for i := range b.topics {
		if b.topics[i].ID == topicID {
			b.topics[i].Status = s
		}
	}
}

// Topics returns a copy of the current listing.
func (b *Board) Topics() []models.Topic {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Topic, len(b.topics))
	copy(out, b.topics)
	return out
}

// Topic looks a topic up by id.
func (b *Board) Topic(topicID int64) (models.Topic, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, t := range b.topics {
		if t.ID == topicID {
			return t, true
		}
	}
	return models.Topic{}, false
}

func (b *Board) SetTally(t models.VoteTally) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tallies[t.TopicID] = t
}

func (b *Board) Tally(topicID int64) (models.VoteTally, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.tallies[topicID]
	return t, ok
}

// SetSession records a server-confirmed session window. A window opened
// after the topic was marked Closed is a new session and lifts the mark.
func (b *Board) SetSession(s models.VotingSession) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[s.TopicID] = s

	if markedAt, ok := b.closed[s.TopicID]; ok && s.OpenAt.After(markedAt) {
		delete(b.closed, s.TopicID)
		b.setStatus(s.TopicID, ComputeStatus(b.now(), &s))
	}
}

func (b *Board) Session(topicID int64) (models.VotingSession, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.sessions[topicID]
	return s, ok
}

// View projects the current listing against the cached sessions.
func (b *Board) View(cached sessions.Map, now time.Time) []TopicView {
	return Project(b.Topics(), cached, now)
}
