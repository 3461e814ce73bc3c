// Package services contains the application services of the gophvote client.
// They validate input, gate privileged calls on the stored token, talk to the
// remote service and keep the local state (token, session cache, board) in
// step with it.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/client"
	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"github.com/dmitrijs2005/gophvote/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/dmitrijs2005/gophvote/internal/dbx"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register / Login: validate locally, authenticate against the server
//     and persist the bearer token and user name.
//   - Logout: forget the stored token.
//   - Token: return the stored token, or client.ErrUnauthorized when there
//     is none or it has expired.
//   - CurrentUser: the stored user name, empty when logged out.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Register(ctx context.Context, name, cpf, password string) (*models.User, error)
	Login(ctx context.Context, cpf, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Token(ctx context.Context) (string, error)
	CurrentUser(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
	now    func() time.Time
}

// NewAuthService constructs an AuthService bound to the given API client and
// DB. A nil now uses the wall clock.
func NewAuthService(c client.Client, db *sql.DB, now func() time.Time) AuthService {
	if now == nil {
		now = time.Now
	}
	return &authService{client: c, db: db, now: now}
}

func (a *authService) Register(ctx context.Context, name, cpf, password string) (*models.User, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateCPF(cpf); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	res, err := a.client.Register(ctx, name, cpf, password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if res.Name == "" {
		res.Name = name
	}
	return a.remember(ctx, res)
}

func (a *authService) Login(ctx context.Context, cpf, password string) (*models.User, error) {
	if err := ValidateCPF(cpf); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	res, err := a.client.Login(ctx, cpf, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if res.CPF == "" {
		res.CPF = cpf
	}
	return a.remember(ctx, res)
}

// remember persists token and user name in one transaction. Servers that
// register without issuing a token leave the user logged out.
func (a *authService) remember(ctx context.Context, res *client.AuthResult) (*models.User, error) {
	user := res.User
	if res.Token == "" {
		return &user, nil
	}

	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.TokenKey, []byte(res.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.UserNameKey, []byte(displayName(user)))
	})
	if err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}
	return &user, nil
}

func displayName(u models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.CPF
}

func (a *authService) Logout(ctx context.Context) error {
	return metadata.NewSQLiteRepository(a.db).Delete(ctx, common.TokenKey, common.UserNameKey)
}

// Token is the capability gate for privileged calls. Tokens that are not
// JWTs are passed through and left to the server to judge.
func (a *authService) Token(ctx context.Context) (string, error) {
	raw, err := metadata.NewSQLiteRepository(a.db).Get(ctx, common.TokenKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", client.ErrLocalDataNotAvailable, err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("%w: not logged in", client.ErrUnauthorized)
	}

	token := string(raw)
	if expired(token, a.now()) {
		return "", fmt.Errorf("%w: session token expired", client.ErrUnauthorized)
	}
	return token, nil
}

func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

func (a *authService) CurrentUser(ctx context.Context) (string, error) {
	name, err := metadata.NewSQLiteRepository(a.db).Get(ctx, common.UserNameKey)
	if err != nil {
		return "", err
	}
	return string(name), nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
