package cache

import (
	"context"
	"dispatch-conflict-service/internal/domain"
	"dispatch-conflict-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultConflictTTL = 30 * time.Second
	keyDayConflicts    = "dispatch:conflicts:day:" // + YYYY-MM-DD
)

// RedisConflictCache stores whole-day conflict reports as JSON under a per-date key.
// Entries expire after TTL so edits made outside this service are picked up quickly.
type RedisConflictCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisConflictCache(client *redis.Client, ttl time.Duration) *RedisConflictCache {
	if ttl <= 0 {
		ttl = DefaultConflictTTL
	}
	return &RedisConflictCache{Client: client, TTL: ttl}
}

func dayKey(date domain.Date) string { return keyDayConflicts + date.String() }

// Fetch the cached report for a date.
func (c *RedisConflictCache) Get(ctx context.Context, date domain.Date) (_ []domain.Conflict, _ bool, err error) {
	defer obs.Time(ctx, "conflict.cache.Get")(&err)

	if c.Client == nil {
		return nil, false, errors.New("conflict cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, dayKey(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get conflict cache %s: %w", date, err)
	}

	var conflicts []domain.Conflict
	if err := json.Unmarshal(raw, &conflicts); err != nil {
		return nil, false, fmt.Errorf("get conflict cache %s: decode: %w", date, err)
	}
	if conflicts == nil {
		conflicts = []domain.Conflict{}
	}

	return conflicts, true, nil
}

// Store the report for a date.
func (c *RedisConflictCache) Put(ctx context.Context, date domain.Date, conflicts []domain.Conflict) error {
	if c.Client == nil {
		return errors.New("conflict cache: client is nil")
	}
	if conflicts == nil {
		conflicts = []domain.Conflict{}
	}

	raw, err := json.Marshal(conflicts)
	if err != nil {
		return fmt.Errorf("put conflict cache %s: encode: %w", date, err)
	}
	if err := c.Client.Set(ctx, dayKey(date), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("put conflict cache %s: %w", date, err)
	}

	return nil
}

func (c *RedisConflictCache) Invalidate(ctx context.Context, date domain.Date) error {
	if c.Client == nil {
		return errors.New("conflict cache: client is nil")
	}
	if err := c.Client.Del(ctx, dayKey(date)).Err(); err != nil {
		return fmt.Errorf("invalidate conflict cache %s: %w", date, err)
	}
	return nil
}
