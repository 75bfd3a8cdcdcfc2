package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

const statusCountsKey = "status:counts"

type statusCounts struct {
	Chunks  int64 `json:"chunks"`
	History int64 `json:"history"`
}

// StatusCache keeps the store counts served by the status endpoint in Redis.
// Writers invalidate it so a fresh count follows every ingest and every
// answered question.
type StatusCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewStatusCache(client *redisv9.Client, ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatusCache{client: client, ttl: ttl}
}

func (c *StatusCache) GetCounts(ctx context.Context) (int64, int64, bool, error) {
	raw, err := c.client.Get(ctx, statusCountsKey).Result()
	if err == redisv9.Nil {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("redis get status counts failed: %w", err)
	}

	var counts statusCounts
	if err := json.Unmarshal([]byte(raw), &counts); err != nil {
		return 0, 0, false, fmt.Errorf("unmarshal cached status counts failed: %w", err)
	}
	return counts.Chunks, counts.History, true, nil
}

func (c *StatusCache) SetCounts(ctx context.Context, chunks, history int64) error {
	payload, err := json.Marshal(statusCounts{Chunks: chunks, History: history})
	if err != nil {
		return fmt.Errorf("marshal status counts failed: %w", err)
	}
	if err := c.client.Set(ctx, statusCountsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set status counts failed: %w", err)
	}
	return nil
}

func (c *StatusCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, statusCountsKey).Err(); err != nil {
		return fmt.Errorf("redis delete status counts failed: %w", err)
	}
	return nil
}
