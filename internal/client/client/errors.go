package client

import (
	"errors"
	"net/http"
)

var (
	ErrUnavailable           = errors.New("server unavailable")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrRejected              = errors.New("rejected by server")
	ErrNotFound              = errors.New("not found")
	ErrServer                = errors.New("server error")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)

// APIError is a failure reported by the remote service, either through a
// non-2xx status or an envelope with status "error".
//
// It matches the sentinels with errors.Is: 401 and 403 are ErrUnauthorized,
// 404 is both ErrNotFound and ErrRejected, any other status below 500 is
// ErrRejected and the rest is ErrServer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Is(target error) bool {
	unauthorized := e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden

	switch target {
	case ErrUnauthorized:
		return unauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrRejected:
		return !unauthorized && e.StatusCode < http.StatusInternalServerError
	case ErrServer:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}
