package kv

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/ratemymovie/internal/kv/migrations"
	"github.com/pressly/goose/v3"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for dialect, which is
// either "sqlite3" or "pgx".
func RunMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	var dir string
	switch dialect {
	case "sqlite3":
		dir = "sqlite"
	case "pgx":
		dir = "postgres"
	default:
		return fmt.Errorf("unsupported migration dialect %q", dialect)
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
