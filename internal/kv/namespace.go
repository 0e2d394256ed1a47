package kv

import (
	"context"
	"strings"
)

// DefaultNamespace is the key prefix of the application documents.
const DefaultNamespace = "@rate_my_movie:"

// NamespacedStore scopes all keys of an underlying Store under prefix.
type NamespacedStore struct {
	inner  Store
	prefix string
}

func Namespaced(inner Store, prefix string) *NamespacedStore {
	return &NamespacedStore{inner: inner, prefix: prefix}
}

func (n *NamespacedStore) Get(ctx context.Context, key string) ([]byte, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *NamespacedStore) Set(ctx context.Context, key string, value []byte) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *NamespacedStore) SetMany(ctx context.Context, values map[string][]byte) error {
	prefixed := make(map[string][]byte, len(values))
	for k, v := range values {
		prefixed[n.prefix+k] = v
	}
	return SetMany(ctx, n.inner, prefixed)
}

func (n *NamespacedStore) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

// List returns the keys under the prefix with the prefix stripped.
func (n *NamespacedStore) List(ctx context.Context) (map[string][]byte, error) {
	all, err := n.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte)
	for k, v := range all {
		if rest, ok := strings.CutPrefix(k, n.prefix); ok {
			out[rest] = v
		}
	}
	return out, nil
}

// Clear deletes only the keys under the prefix.
func (n *NamespacedStore) Clear(ctx context.Context) error {
	if n.prefix == "" {
		return n.inner.Clear(ctx)
	}
	all, err := n.inner.List(ctx)
	if err != nil {
		return err
	}
	for k := range all {
		if strings.HasPrefix(k, n.prefix) {
			if err := n.inner.Delete(ctx, k); err != nil {
				return err
			}
		}
	}
	return nil
}
