package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Denylist records revoked token IDs until the token would have expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func denylistKey(tokenID string) string {
	return fmt.Sprintf("blacklist:%s", tokenID)
}

type RedisDenylist struct {
	client *RedisClient
}

func NewRedisDenylist(client *RedisClient) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistKey(tokenID), "revoked", ttl)
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return d.client.Exists(ctx, denylistKey(tokenID))
}

// MemoryDenylist is the single-process fallback used when Redis is not configured.
type MemoryDenylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sweep()
	d.entries[denylistKey(tokenID)] = d.now().Add(ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	until, ok := d.entries[denylistKey(tokenID)]
	if !ok {
		return false, nil
	}
	if !d.now().Before(until) {
		delete(d.entries, denylistKey(tokenID))
		return false, nil
	}
	return true, nil
}

// sweep drops expired entries. Caller holds mu.
func (d *MemoryDenylist) sweep() {
	now := d.now()
	for k, until := range d.entries {
		if !now.Before(until) {
			delete(d.entries, k)
		}
	}
}
