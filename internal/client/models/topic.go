// Package models defines client-side data models used by the gophvote CLI.
package models

import "time"

// Topic is a matter open for voting ("pauta").
type Topic struct {
	// ID is assigned by the remote service.
	ID int64 `json:"id"`

	// Name is the human readable title, never empty.
	Name string `json:"name"`

	// Status is the remote-confirmed status when the listing reports one.
	// It is never sent back to the server.
	Status Status `json:"status,omitempty"`
}

// VotingSession is the time window during which votes for a topic are
// accepted. CloseAt is always after OpenAt.
type VotingSession struct {
	TopicID int64
	OpenAt  time.Time
	CloseAt time.Time
}

// Duration returns the length of the voting window.
func (s VotingSession) Duration() time.Duration {
	return s.CloseAt.Sub(s.OpenAt)
}
