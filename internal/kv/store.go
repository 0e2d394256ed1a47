package kv

import (
	"context"
	"fmt"
)

// Store is a string-keyed byte store.
//
// Get returns (nil, nil) when the key is absent. Delete of an absent key is
// not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Batcher is implemented by stores that can write several keys atomically.
type Batcher interface {
	SetMany(ctx context.Context, values map[string][]byte) error
}

// SetMany writes all values, atomically when s implements Batcher and one
// key at a time otherwise.
func SetMany(ctx context.Context, s Store, values map[string][]byte) error {
	if b, ok := s.(Batcher); ok {
		return b.SetMany(ctx, values)
	}
	for k, v := range values {
		if err := s.Set(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}

func wrapErr(op, key string, err error) error {
	if key == "" {
		return fmt.Errorf("failed to %s kv: %w", op, err)
	}
	return fmt.Errorf("failed to %s kv[%s]: %w", op, key, err)
}
