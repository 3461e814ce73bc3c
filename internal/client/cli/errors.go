package cli

import (
	"errors"

	"github.com/dmitrijs2005/gophvote/internal/client/client"
	"github.com/dmitrijs2005/gophvote/internal/common"
)

// describeError turns a command failure into the line shown to the user.
// Validation problems and server rejections are notices, not failures.
func describeError(err error) string {
	var apiErr *client.APIError

	switch {
	case errors.Is(err, common.ErrValidation):
		return err.Error()
	case errors.Is(err, client.ErrUnauthorized):
		return "please login again: " + err.Error()
	case errors.Is(err, client.ErrRejected) && errors.As(err, &apiErr):
		return "notice: " + apiErr.Message
	case errors.Is(err, client.ErrUnavailable):
		return "error: server unavailable, try again later"
	default:
		return "error: " + err.Error()
	}
}
