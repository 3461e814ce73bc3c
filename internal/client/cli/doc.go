// Package cli provides the interactive gvote command-line client.
//
// It wires configuration, the local database, the API client, the services,
// the topic board and the session watcher, and runs a REPL over them.
// Typical flow: restore the stored login, start the session watcher and a
// background connectivity watcher, then execute user commands until exit.
//
// Key features:
//   - Register / Login / Logout
//   - List topics with their live session status, add topics
//   - Open a voting session, vote, view results and session windows
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
