package kv

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// redisKeyPrefix scopes the application inside a shared Redis database.
const redisKeyPrefix = "ratemymovie:"

// Options selects and configures a backend.
type Options struct {
	Driver string
	// DSN is a file path or sqlite URI, a postgres URL, or a redis host:port
	// or redis:// URL depending on Driver.
	DSN       string
	Namespace string
	// Registerer receives the store metrics; nil disables registration.
	Registerer prometheus.Registerer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var noopCloser = closerFunc(func() error { return nil })

// Open builds the backend named by opts.Driver, applies migrations where the
// backend needs them, and wraps it with metrics and the namespace.
func Open(ctx context.Context, opts Options) (Store, io.Closer, error) {
	var (
		base   Store
		closer io.Closer = noopCloser
	)

	switch opts.Driver {
	case DriverSQLite, "":
		db, err := sql.Open("sqlite", opts.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// sqlite allows one writer; a single connection also keeps
		// ":memory:" databases consistent.
		db.SetMaxOpenConns(1)
		if err := RunMigrations(ctx, db, "sqlite3"); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		base, closer = NewSQLiteStore(db), db

	case DriverPostgres:
		db, err := sql.Open("pgx", opts.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := RunMigrations(ctx, db, "pgx"); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		base, closer = NewPostgresStore(db), db

	case DriverRedis:
		client, err := newRedisClient(ctx, opts.DSN)
		if err != nil {
			return nil, nil, err
		}
		base, closer = NewRedisStore(client, redisKeyPrefix), client

	case DriverMemory:
		base = NewMemoryStore()

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}

	var s Store = Instrumented(base, opts.Registerer)
	if opts.Namespace != "" {
		s = Namespaced(s, opts.Namespace)
	}
	return s, closer, nil
}

func newRedisClient(ctx context.Context, dsn string) (*redis.Client, error) {
	var ropts *redis.Options
	if u, err := redis.ParseURL(dsn); err == nil {
		ropts = u
	} else {
		ropts = &redis.Options{Addr: dsn}
	}
	client := redis.NewClient(ropts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
