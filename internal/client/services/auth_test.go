package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/client/client"
	"github.com/dmitrijs2005/gophvote/internal/client/models"
	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"cpf": "12345678901",
		"exp": exp.Unix(),
	}).SignedString([]byte("anything"))
	require.NoError(t, err)
	return tok
}

func TestAuth_ValidationBeforeNetwork(t *testing.T) {
	fc := &fakeClient{}
	e := newEnv(t, fc, &clock{now: t0})
	ctx := context.Background()

	tests := []struct {
		name     string
		register func() error
		want     error
	}{
		{"bad cpf", func() error { _, err := e.auth.Register(ctx, "Maria", "123", "secret1"); return err }, common.ErrInvalidCPF},
		{"letters in cpf", func() error { _, err := e.auth.Login(ctx, "1234567890a", "secret1"); return err }, common.ErrInvalidCPF},
		{"short password", func() error { _, err := e.auth.Login(ctx, "12345678901", "123"); return err }, common.ErrShortPassword},
		{"empty name", func() error { _, err := e.auth.Register(ctx, " ", "12345678901", "secret1"); return err }, common.ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.register()
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}

	assert.Empty(t, fc.calls())
}

func TestAuth_LoginStoresTokenAndLogoutForgetsIt(t *testing.T) {
	ctx := context.Background()
	e := newDevEnv(t)

	_, err := e.auth.Token(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	u, err := e.auth.Register(ctx, "Maria", "12345678901", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Maria", u.Name)

	require.NoError(t, e.auth.Logout(ctx))
	_, err = e.auth.Token(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	_, err = e.auth.Login(ctx, "12345678901", "secret1")
	require.NoError(t, err)

	tok, err := e.auth.Token(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	name, err := e.auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Maria", name)

	_, err = e.auth.Login(ctx, "12345678901", "wrong12")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
}

func TestAuth_ExpiredTokenIsRejectedLocally(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: t0}
	fc := &fakeClient{AuthRet: &client.AuthResult{
		User:  models.User{Name: "Maria", CPF: "12345678901"},
		Token: signedToken(t, t0.Add(time.Hour)),
	}}
	e := newEnv(t, fc, clk)

	_, err := e.auth.Login(ctx, "12345678901", "secret1")
	require.NoError(t, err)

	_, err = e.auth.Token(ctx)
	require.NoError(t, err)

	clk.Advance(time.Hour)
	_, err = e.auth.Token(ctx)
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	_, err = e.topics.Create(ctx, "x")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.NotContains(t, fc.calls(), "CreateTopic")
}

func TestAuth_OpaqueTokenPassesThrough(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{AuthRet: &client.AuthResult{Token: "opaque"}}
	e := newEnv(t, fc, &clock{now: t0})

	u, err := e.auth.Login(ctx, "12345678901", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "12345678901", u.CPF)

	tok, err := e.auth.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque", tok)

	name, err := e.auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12345678901", name)
}
