package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// inFlightMarker is stored while the first request with a key is still
// being processed. A replay that reads it gets an empty cached response
// and must be answered with a conflict by the caller.
const inFlightMarker = "in-flight"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
// Transfer requests carry an Idempotency-Key header; replays within the
// TTL get the original response instead of a second ledger mutation.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "tappay:idem:",
	}
}

// CheckAndSet claims the key if it is free, or returns the response the
// original request stored. SETNX makes the claim atomic: of two racing
// requests with the same key exactly one proceeds.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	value := any(inFlightMarker)
	if response != nil {
		value = response
	}

	claimed, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if claimed {
		return false, nil, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Claim expired between SETNX and GET; treat as a fresh key.
			return false, nil, nil
		}
		return false, nil, err
	}

	if string(existing) == inFlightMarker {
		return true, nil, nil
	}

	return true, existing, nil
}

// Update replaces the in-flight marker with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}

// Delete releases a claimed key so the request can be retried. Called when
// the first attempt fails and no response was cached.
func (s *IdempotencyStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
