// Package shared provides helpers for handling secrets in memory.
package shared

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomSecret returns size random bytes, hex encoded. It is meant for
// signing keys that only need to live as long as the process.
func RandomSecret(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}

	out := make([]byte, hex.EncodedLen(size))
	hex.Encode(out, b)
	WipeByteArray(b)
	return out, nil
}

// WipeByteArray overwrites b with zeros. Use it on passwords once they have
// been handed over.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
