// Package metadata is the local key/value table backing the client's
// persisted state: the session cache document and the bearer token.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns (nil, nil) when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
