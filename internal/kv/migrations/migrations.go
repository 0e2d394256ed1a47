// Package migrations embeds the goose migrations for the SQL kv backends.
package migrations

import "embed"

// FS holds one directory per dialect: sqlite and postgres.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
