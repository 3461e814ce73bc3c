package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/client"
	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"github.com/dmitrijs2005/gophvote/internal/client/projection"
	"github.com/dmitrijs2005/gophvote/internal/client/sessions"
)

// TopicService lists and creates topics and keeps the board's listing
// current.
//
// Refresh has the signature the session watcher expects from its refresher.
type TopicService interface {
	List(ctx context.Context) ([]models.Topic, error)
	Create(ctx context.Context, name string) (*models.Topic, error)
	Refresh(ctx context.Context, topicIDs []int64) error
	Views(ctx context.Context) ([]projection.TopicView, error)
}

type topicService struct {
	client client.Client
	auth   AuthService
	store  *sessions.Store
	board  *projection.Board
	now    func() time.Time
}

func NewTopicService(c client.Client, auth AuthService, store *sessions.Store, board *projection.Board, now func() time.Time) TopicService {
	if now == nil {
		now = time.Now
	}
	return &topicService{client: c, auth: auth, store: store, board: board, now: now}
}

// List fetches the remote listing and installs it on the board.
func (s *topicService) List(ctx context.Context) ([]models.Topic, error) {
	topics, err := s.client.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	s.board.Replace(topics)
	return s.board.Topics(), nil
}

func (s *topicService) Create(ctx context.Context, name string) (*models.Topic, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	token, err := s.auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	t, err := s.client.CreateTopic(ctx, token, name)
	if err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}

	if t.ID == 0 {
		// not echoed by the server; best effort to pick it up from a listing
		_, _ = s.List(ctx)
		return t, nil
	}
	s.board.Add(*t)
	return t, nil
}

// Refresh re-reads the listing and, for each given topic, its final tally
// and server session window. Nothing is applied when ctx ends first. Errors
// for individual topics are joined; what was fetched is still applied.
func (s *topicService) Refresh(ctx context.Context, topicIDs []int64) error {
	topics, err := s.client.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("refresh topics: %w", err)
	}

	var (
		errs    []error
		tallies []models.VoteTally
		windows []models.VotingSession
	)
	for _, id := range topicIDs {
		if t, err := s.client.Result(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("result of topic %d: %w", id, err))
		} else {
			tallies = append(tallies, *t)
		}

		if vs, err := s.client.GetSession(ctx, id); err != nil {
			if !errors.Is(err, client.ErrNotFound) {
				errs = append(errs, fmt.Errorf("session of topic %d: %w", id, err))
			}
		} else {
			windows = append(windows, *vs)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.board.Replace(topics)
	for _, t := range tallies {
		s.board.SetTally(t)
	}
	for _, vs := range windows {
		s.board.SetSession(vs)
	}
	return errors.Join(errs...)
}

// Views projects the board against the cached sessions at the current time.
func (s *topicService) Views(ctx context.Context) ([]projection.TopicView, error) {
	cached, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.board.View(cached, s.now()), nil
}
