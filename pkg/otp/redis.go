package otp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// expiryGrace keeps a record readable for a short window past its expiry so
// a late Verify reports "expired" rather than "not found".
const expiryGrace = time.Minute

// Redis is a Store backed by Redis, for deployments with more than one
// process. Records are JSON under a key prefix; Redis server-side TTLs
// handle removal, so Sweep is a no-op.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis creates a Redis-backed store. An empty prefix defaults to "otp".
// The client lifecycle is managed by the caller.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "otp"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(email string) string {
	return r.prefix + ":" + email
}

// Put stores a record with a TTL covering its lifetime plus a grace window.
func (r *Redis) Put(ctx context.Context, email string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	ttl := time.Until(rec.ExpiresAt) + expiryGrace
	if ttl <= 0 {
		ttl = expiryGrace
	}

	return r.client.Set(ctx, r.key(email), data, ttl).Err()
}

// Get returns the record for the address.
func (r *Redis) Get(ctx context.Context, email string) (Record, error) {
	data, err := r.client.Get(ctx, r.key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Delete removes the record for the address.
func (r *Redis) Delete(ctx context.Context, email string) error {
	return r.client.Del(ctx, r.key(email)).Err()
}

// Sweep is a no-op: Redis expires keys server-side.
func (r *Redis) Sweep(context.Context) error {
	return nil
}

// Close is a no-op; the Redis client is closed by its owner.
func (r *Redis) Close() error {
	return nil
}

var _ Store = (*Redis)(nil)
