// Package common contains constants and sentinel errors shared by the
// gophvote client layers.
package common

// Metadata keys of the local key/value table.
const (
	// SessionsKey holds the JSON document {topicID: endTime} of cached sessions.
	SessionsKey = "voting_sessions"
	// TokenKey holds the bearer token string of the logged-in user.
	TokenKey = "auth_token"
	// UserNameKey holds the display name returned at login/registration.
	UserNameKey = "user_name"
)

// HTTP headers used on outbound requests.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-Id"
)
