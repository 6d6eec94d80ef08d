package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/model"
	"pos-service/pkg/config"

	"github.com/redis/go-redis/v9"
)

const (
	snapshotKeyPrefix = "pos:cache:"
	pendingQueueKey   = "pos:pending:sales"
)

// RedisStore is the durable Store implementation. Snapshots and the pending
// queue live in Redis so they survive process restarts.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func snapshotKey(col model.Collection) string {
	return snapshotKeyPrefix + col.String()
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, col model.Collection, filters Filters) ([]json.RawMessage, error) {
	data, err := s.client.Get(ctx, snapshotKey(col)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return []json.RawMessage{}, fmt.Errorf("read snapshot %s: %w", col, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		// A corrupt snapshot behaves like a miss.
		return []json.RawMessage{}, fmt.Errorf("decode snapshot %s: %w", col, err)
	}

	return applyFilters(records, filters), nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, col model.Collection, records any) error {
	raws, err := encodeSnapshot(records)
	if err != nil {
		return err
	}
	data, err := json.Marshal(raws)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", col, err)
	}
	if err := s.client.Set(ctx, snapshotKey(col), data, 0).Err(); err != nil {
		return fmt.Errorf("write snapshot %s: %w", col, err)
	}
	return nil
}

// Invalidate implements Store.
func (s *RedisStore) Invalidate(ctx context.Context, col model.Collection) error {
	return s.client.Del(ctx, snapshotKey(col)).Err()
}

// EnqueuePending implements Store.
func (s *RedisStore) EnqueuePending(ctx context.Context, rec model.SaleRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal pending sale: %w", err)
	}
	if err := s.client.RPush(ctx, pendingQueueKey, data).Err(); err != nil {
		return fmt.Errorf("enqueue pending sale: %w", err)
	}
	return nil
}

// PeekPending implements Store.
func (s *RedisStore) PeekPending(ctx context.Context) (*model.SaleRecord, error) {
	data, err := s.client.LIndex(ctx, pendingQueueKey, 0).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("peek pending queue: %w", err)
	}

	var rec model.SaleRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode pending sale: %w", err)
	}
	return &rec, nil
}

// DropPending implements Store.
func (s *RedisStore) DropPending(ctx context.Context) error {
	err := s.client.LPop(ctx, pendingQueueKey).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// PendingCount implements Store.
func (s *RedisStore) PendingCount(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, pendingQueueKey).Result()
}
