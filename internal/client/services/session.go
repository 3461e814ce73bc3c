package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/client"
	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"github.com/dmitrijs2005/gophvote/internal/client/projection"
	"github.com/dmitrijs2005/gophvote/internal/client/sessions"
	"github.com/dmitrijs2005/gophvote/internal/logging"
)

// SessionService opens voting sessions and reads their server window.
type SessionService interface {
	Open(ctx context.Context, topicID int64, minutes int) (models.VotingSession, error)
	Status(ctx context.Context, topicID int64) (*models.VotingSession, error)
}

type sessionService struct {
	client client.Client
	auth   AuthService
	store  *sessions.Store
	board  *projection.Board
	logger logging.Logger
	now    func() time.Time
}

func NewSessionService(c client.Client, auth AuthService, store *sessions.Store, board *projection.Board, logger logging.Logger, now func() time.Time) SessionService {
	if now == nil {
		now = time.Now
	}
	return &sessionService{client: c, auth: auth, store: store, board: board, logger: logger, now: now}
}

// Open asks the server to open a session of minutes for topicID. On success
// the client caches a provisional end of now+minutes and marks the topic
// Open. The server's close_at, when it can be read, replaces the provisional
// end. A failed remote write changes nothing locally.
func (s *sessionService) Open(ctx context.Context, topicID int64, minutes int) (models.VotingSession, error) {
	if err := ValidateTopicID(topicID); err != nil {
		return models.VotingSession{}, err
	}
	if err := ValidateDuration(minutes); err != nil {
		return models.VotingSession{}, err
	}
	token, err := s.auth.Token(ctx)
	if err != nil {
		return models.VotingSession{}, err
	}

	now := s.now()
	if err := s.client.OpenSession(ctx, token, topicID, minutes); err != nil {
		return models.VotingSession{}, fmt.Errorf("open session: %w", err)
	}

	vs := models.VotingSession{
		TopicID: topicID,
		OpenAt:  now,
		CloseAt: now.Add(time.Duration(minutes) * time.Minute),
	}
	if err := s.store.Put(ctx, topicID, vs.CloseAt); err != nil {
		return vs, fmt.Errorf("cache session: %w", err)
	}
	s.board.MarkOpen(topicID)

	confirmed, err := s.client.GetSession(ctx, topicID)
	if err != nil {
		s.logger.Debug(ctx, "session window not confirmed, keeping local estimate", "topic_id", topicID, "error", err)
		return vs, nil
	}

	s.board.SetSession(*confirmed)
	if !confirmed.CloseAt.Equal(vs.CloseAt) {
		if err := s.store.Put(ctx, topicID, confirmed.CloseAt); err != nil {
			s.logger.Warn(ctx, "cannot cache confirmed session end", "topic_id", topicID, "error", err)
			return vs, nil
		}
	}
	return *confirmed, nil
}

// Status reads the server's window for topicID and records it on the board.
func (s *sessionService) Status(ctx context.Context, topicID int64) (*models.VotingSession, error) {
	if err := ValidateTopicID(topicID); err != nil {
		return nil, err
	}
	vs, err := s.client.GetSession(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("session status: %w", err)
	}
	s.board.SetSession(*vs)
	return vs, nil
}
