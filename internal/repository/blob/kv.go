package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/worldmatch/internal/db"
	"github.com/kailas-cloud/worldmatch/internal/domain"
)

// store is the consumer interface for KV blobs (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// KV is a blob stored under a single Valkey/Redis key.
type KV struct {
	store store
	key   string
}

// NewKV creates a KV blob at key.
func NewKV(s store, key string) *KV {
	return &KV{store: s, key: key}
}

// Location returns the key.
func (k *KV) Location() string { return "key:" + k.key }

// Read returns the stored value or domain.ErrNotFound.
func (k *KV) Read(ctx context.Context) ([]byte, error) {
	data, err := k.store.Get(ctx, k.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("GET %s: %w", k.key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GET %s: %w", k.key, err)
	}
	return data, nil
}

// Write replaces the stored value.
func (k *KV) Write(ctx context.Context, data []byte) error {
	if err := k.store.Set(ctx, k.key, data); err != nil {
		return fmt.Errorf("SET %s: %w", k.key, err)
	}
	return nil
}
