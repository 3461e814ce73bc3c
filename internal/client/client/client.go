package client

import (
	"context"

	"github.com/dmitrijs2005/gophvote/internal/client/models"
)

// AuthResult is what login and registration return: the user and a bearer
// token for privileged calls.
type AuthResult struct {
	models.User
	Token string `json:"token"`
}

type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Register(ctx context.Context, name, cpf, password string) (*AuthResult, error)
	Login(ctx context.Context, cpf, password string) (*AuthResult, error)

	ListTopics(ctx context.Context) ([]models.Topic, error)
	CreateTopic(ctx context.Context, token, name string) (*models.Topic, error)

	OpenSession(ctx context.Context, token string, topicID int64, minutes int) error
	GetSession(ctx context.Context, topicID int64) (*models.VotingSession, error)

	Vote(ctx context.Context, token string, topicID int64, choice models.Choice) error
	Result(ctx context.Context, topicID int64) (*models.VoteTally, error)
}
