// Package client talks to the remote topic/session service and bootstraps
// the local database.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): auth,
//     topics, voting sessions, votes and tallies.
//  2. A fasthttp implementation (see HTTPClient) that speaks the REST/JSON
//     contract under the /api base path, unwraps the {status, error, data}
//     envelope and maps failures to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations): an SQLite
//     database with embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Failures reported by the server are
// *APIError values that match ErrUnauthorized, ErrRejected, ErrNotFound or
// ErrServer through errors.Is.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call honours ctx: a deadline
// is passed down to fasthttp and a response that arrives after ctx is done is
// dropped.
package client
