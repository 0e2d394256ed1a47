// Package cli provides the interactive ratemymovie command-line client.
//
// It wires configuration, the key-value store, the session and movie list
// managers, the TMDB catalog and avatar storage, then runs a REPL until the
// user exits. When a metrics address is configured it also serves
// Prometheus metrics for the store.
//
// Key features:
//   - Register / Login / Logout, with the session persisted across runs
//   - Search and browse the catalog, show movie details
//   - Rate, re-rate, remove and list rated movies, with simple stats
//   - Profile view and avatar upload
//   - Export / import of the whole namespace as JSON
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
