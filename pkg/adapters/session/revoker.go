package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wadjakorntonsri/interne/pkg/core/clock"
	"github.com/wadjakorntonsri/interne/pkg/ports"
)

// MemoryRevoker keeps revoked token ids in process. Entries are dropped
// once the token would have expired anyway.
type MemoryRevoker struct {
	mu    sync.Mutex
	until map[string]time.Time
	clock clock.Clock
}

func NewMemoryRevoker(clk clock.Clock) *MemoryRevoker {
	return &MemoryRevoker{until: make(map[string]time.Time), clock: clk}
}

func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	for id, exp := range m.until {
		if !now.Before(exp) {
			delete(m.until, id)
		}
	}
	if now.Before(until) {
		m.until[tokenID] = until
	}
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.until[tokenID]
	if !ok {
		return false, nil
	}
	if !m.clock.Now().Before(exp) {
		delete(m.until, tokenID)
		return false, nil
	}
	return true, nil
}

// RedisRevoker stores revoked token ids as keys that expire with the token,
// so every server instance sees a logout.
type RedisRevoker struct {
	client *redis.Client
	clock  clock.Clock
}

func NewRedisRevoker(client *redis.Client, clk clock.Clock) *RedisRevoker {
	return &RedisRevoker{client: client, clock: clk}
}

// DialRedis connects to a redis:// URL and checks that the server answers.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func revokedKey(tokenID string) string {
	return "revoked:" + tokenID
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.clock.Now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKey(tokenID), 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var (
	_ ports.TokenRevoker = (*MemoryRevoker)(nil)
	_ ports.TokenRevoker = (*RedisRevoker)(nil)
)
