package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spacesedan/reviewcloud/internal/clients"
)

// ValkeyStore shares artifacts between server replicas through Valkey.
type ValkeyStore struct {
	client *clients.ValkeyClient
	ttl    time.Duration
}

func NewValkeyStore(client *clients.ValkeyClient, ttl time.Duration) *ValkeyStore {
	return &ValkeyStore{client: client, ttl: ttl}
}

func (v *ValkeyStore) Put(ctx context.Context, key string, a Artifact) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}
	if err := v.client.SetWithTTL(ctx, key, data, v.ttl); err != nil {
		return fmt.Errorf("failed to store artifact %s: %w", key, err)
	}
	return nil
}

func (v *ValkeyStore) Get(ctx context.Context, key string) (Artifact, error) {
	data, err := v.client.Get(ctx, key)
	if errors.Is(err, clients.ErrCacheMiss) {
		return Artifact{}, ErrNotFound
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to load artifact %s: %w", key, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return Artifact{}, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}
	return a, nil
}

func (v *ValkeyStore) TTL() time.Duration { return v.ttl }
