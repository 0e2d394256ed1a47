package kv

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

const redisScanCount = 100

// RedisStore keeps each key as a plain Redis string under prefix. List and
// Clear only see keys under that prefix.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(k string) string {
	return r.prefix + k
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get", key, err)
	}
	return val, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return wrapErr("set", key, err)
	}
	return nil
}

// SetMany writes all values inside MULTI/EXEC.
func (r *RedisStore) SetMany(ctx context.Context, values map[string][]byte) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for k, v := range values {
			p.Set(ctx, r.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return wrapErr("set many", "", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return wrapErr("delete", key, err)
	}
	return nil
}

func (r *RedisStore) scan(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", redisScanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (r *RedisStore) Clear(ctx context.Context) error {
	err := r.scan(ctx, func(keys []string) error {
		return r.client.Del(ctx, keys...).Err()
	})
	if err != nil {
		return wrapErr("clear", "", err)
	}
	return nil
}

func (r *RedisStore) List(ctx context.Context) (map[string][]byte, error) {
	result := make(map[string][]byte)
	err := r.scan(ctx, func(keys []string) error {
		vals, err := r.client.MGet(ctx, keys...).Result()
		if err != nil {
			return err
		}
		for i, v := range vals {
			s, ok := v.(string)
			if !ok {
				// deleted between SCAN and MGET
				continue
			}
			result[strings.TrimPrefix(keys[i], r.prefix)] = []byte(s)
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr("list", "", err)
	}
	return result, nil
}
