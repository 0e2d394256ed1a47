// Package kv provides the persisted key-value store that backs the identity
// and association documents.
//
// A Store maps string keys to opaque byte values. Backends:
//
//   - SQL (SQLite via modernc.org/sqlite, PostgreSQL via pgx) in a single
//     kv table created by goose migrations;
//   - Redis via go-redis;
//   - an in-process map for tests and throwaway sessions.
//
// Wrappers compose on top of any backend: Namespaced scopes keys under a
// prefix and Instrumented records Prometheus metrics per operation.
//
// The store guarantees last-write-wins per key and nothing more; there are
// no cross-key transactions except through the optional Batcher interface.
package kv
