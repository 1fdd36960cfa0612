// Package cli provides the interactive Voices command-line client.
//
// It wires configuration, the local session store, the ledger client and an
// interactive REPL. Typical flow: restore the saved session, load the
// listing, start a background connectivity watcher and execute user
// commands until "exit".
//
// Key features:
//   - Register / Login / Logout (the session survives restarts)
//   - List proposals, change sort order and category filter
//   - Vote up or down, submit, edit and delete proposals
//
// Votes, edits and deletes show up immediately and are rolled back with an
// alert when the ledger refuses them. The REPL is started via App.Run(ctx),
// which blocks until the user exits. See App, StartOnlineStatusWatcher and
// runREPL for details.
package cli
