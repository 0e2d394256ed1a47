package kv

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/ratemymovie/internal/dbx"
)

type queries struct {
	get, set, del, clear, list string
}

var sqliteQueries = queries{
	get: `SELECT value FROM kv WHERE key = ?`,
	set: `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`,
	del:   `DELETE FROM kv WHERE key = ?`,
	clear: `DELETE FROM kv`,
	list:  `SELECT key, value FROM kv`,
}

var postgresQueries = queries{
	get: `SELECT value FROM kv WHERE key = $1`,
	set: `
		INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`,
	del:   `DELETE FROM kv WHERE key = $1`,
	clear: `DELETE FROM kv`,
	list:  `SELECT key, value FROM kv`,
}

// SQLStore keeps every key in one row of the kv table.
type SQLStore struct {
	db *sql.DB
	q  queries
}

func NewSQLiteStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, q: sqliteQueries}
}

func NewPostgresStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, q: postgresQueries}
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get", key, err)
	}
	return value, nil
}

func (s *SQLStore) set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := db.ExecContext(ctx, s.q.set, key, value); err != nil {
		return wrapErr("set", key, err)
	}
	return nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	return s.set(ctx, s.db, key, value)
}

// SetMany writes all values in one transaction.
func (s *SQLStore) SetMany(ctx context.Context, values map[string][]byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for k, v := range values {
			if err := s.set(ctx, tx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.q.del, key); err != nil {
		return wrapErr("delete", key, err)
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.q.clear); err != nil {
		return wrapErr("clear", "", err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx, s.q.list)
	if err != nil {
		return nil, wrapErr("list", "", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, wrapErr("scan", "", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate", "", err)
	}

	return result, nil
}
