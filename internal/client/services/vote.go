package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophvote/internal/client/client"
	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"github.com/dmitrijs2005/gophvote/internal/client/projection"
	"github.com/dmitrijs2005/gophvote/internal/common"
)

// VoteService submits ballots and fetches tallies. Tallies are never
// adjusted locally; they only come from the server.
type VoteService interface {
	Cast(ctx context.Context, topicID int64, choice models.Choice) error
	Result(ctx context.Context, topicID int64) (*models.VoteTally, error)
}

type voteService struct {
	client client.Client
	auth   AuthService
	board  *projection.Board
}

func NewVoteService(c client.Client, auth AuthService, board *projection.Board) VoteService {
	return &voteService{client: c, auth: auth, board: board}
}

func (s *voteService) Cast(ctx context.Context, topicID int64, choice models.Choice) error {
	if err := ValidateTopicID(topicID); err != nil {
		return err
	}
	if choice != models.ChoiceYes && choice != models.ChoiceNo {
		return common.ErrInvalidChoice
	}
	token, err := s.auth.Token(ctx)
	if err != nil {
		return err
	}

	if err := s.client.Vote(ctx, token, topicID, choice); err != nil {
		return fmt.Errorf("vote: %w", err)
	}
	return nil
}

func (s *voteService) Result(ctx context.Context, topicID int64) (*models.VoteTally, error) {
	if err := ValidateTopicID(topicID); err != nil {
		return nil, err
	}
	t, err := s.client.Result(ctx, topicID)
	if err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}
	s.board.SetTally(*t)
	return t, nil
}
