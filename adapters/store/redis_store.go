package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/layer-3/facegate/core"
)

// RedisStore keeps the credential record in Redis, for deployments where
// the session must survive across hosts. It implements both the
// DurableLayer interface (one record under a fixed key) and the
// RevocationList interface (one key per revoked token ID, expiring with
// the token).
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "facegate:",
	}
}

func (s *RedisStore) recordKey() string {
	return s.prefix + RecordName
}

// Write persists the record, expiring it at the record's own expiry so
// Redis garbage-collects stale sessions on its own.
func (s *RedisStore) Write(ctx context.Context, rec core.TokenRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode token record: %w", err)
	}

	ttl := time.Until(time.UnixMilli(rec.Expiry))
	if ttl <= 0 {
		ttl = time.Second
	}

	if err := s.client.Set(ctx, s.recordKey(), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write token record: %w", err)
	}

	return nil
}

// Read returns the current record; a missing or undecodable record is
// reported as absent.
func (s *RedisStore) Read(ctx context.Context) (core.TokenRecord, bool, error) {
	data, err := s.client.Get(ctx, s.recordKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return core.TokenRecord{}, false, nil
		}
		return core.TokenRecord{}, false, fmt.Errorf("failed to read token record: %w", err)
	}

	var rec core.TokenRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return core.TokenRecord{}, false, nil
	}

	return rec, true, nil
}

// Clear removes the record.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.recordKey()).Err(); err != nil {
		return fmt.Errorf("failed to remove token record: %w", err)
	}
	return nil
}

// Revoke marks a token ID as invalidated for the remaining lifetime.
func (s *RedisStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	key := s.prefix + "revoked:" + tokenID

	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// IsRevoked checks whether a token ID has been invalidated.
func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := s.prefix + "revoked:" + tokenID

	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}

	return val > 0, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
