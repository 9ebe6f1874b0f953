package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mini-bookstore/internal/model"

	"github.com/redis/go-redis/v9"
)

// NewRedisReportCache creates a report cache whose entries expire after ttl.
func NewRedisReportCache(client *redis.Client, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{
		client: client,
		ttl:    ttl,
	}
}

// RedisReportCache stores top-selling reports as JSON values keyed by month.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Get returns the cached report for month, or ErrCacheMiss.
func (r *RedisReportCache) Get(ctx context.Context, month string) (*model.TopSellingReport, error) {
	data, err := r.client.Get(ctx, cacheKey(month)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var report model.TopSellingReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report failed: %w", err)
	}

	return &report, nil
}

// Set stores report for month with the configured TTL.
func (r *RedisReportCache) Set(ctx context.Context, month string, report *model.TopSellingReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report failed: %w", err)
	}

	if err := r.client.Set(ctx, cacheKey(month), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Delete removes the cached report for month. Deleting a missing key is not an error.
func (r *RedisReportCache) Delete(ctx context.Context, month string) error {
	if err := r.client.Del(ctx, cacheKey(month)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(month string) string {
	return fmt.Sprintf("report:top-selling:%s", month)
}
