package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/gophvote/internal/client/client"
	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", common.ErrInvalidCPF, common.ErrInvalidCPF.Error()},
		{"wrapped validation", fmt.Errorf("register: %w", common.ErrShortPassword), "register: " + common.ErrShortPassword.Error()},
		{"unauthorized", fmt.Errorf("%w: not logged in", client.ErrUnauthorized), "please login again: unauthorized: not logged in"},
		{"rejected", fmt.Errorf("vote: %w", &client.APIError{StatusCode: 409, Message: "Usuário já votou nesta pauta"}), "notice: Usuário já votou nesta pauta"},
		{"not found", &client.APIError{StatusCode: 404, Message: "Pauta não encontrada"}, "notice: Pauta não encontrada"},
		{"unavailable", fmt.Errorf("list topics: %w", client.ErrUnavailable), "error: server unavailable, try again later"},
		{"server", &client.APIError{StatusCode: 500, Message: "db down"}, "error: db down"},
		{"other", errors.New("disk full"), "error: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeError(tt.err))
		})
	}
}
