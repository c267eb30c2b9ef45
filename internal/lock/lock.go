package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultTTL = time.Minute

// SeedLock keeps two seeders from provisioning the same database at once.
// The value stored under Key is the run ID of the holder.
type SeedLock struct {
	Client *redis.Client
	Key    string
	TTL    time.Duration
}

func NewSeedLock(client *redis.Client, database string, ttl time.Duration) *SeedLock {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SeedLock{
		Client: client,
		Key:    KeyFor(database),
		TTL:    ttl,
	}
}

func KeyFor(database string) string {
	return "seed_lock:" + database
}

// Acquire takes the lock for owner. It returns false without error when
// another run already holds it.
func (l *SeedLock) Acquire(ctx context.Context, owner string) (bool, error) {
	ok, err := l.Client.SetNX(ctx, l.Key, owner, l.TTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire %s: %w", l.Key, err)
	}
	return ok, nil
}

// Holder returns the run ID holding the lock, or "" when it is free.
func (l *SeedLock) Holder(ctx context.Context) (string, error) {
	val, err := l.Client.Get(ctx, l.Key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Release deletes the lock if owner still holds it.
func (l *SeedLock) Release(ctx context.Context, owner string) error {
	val, err := l.Client.Get(ctx, l.Key).Result()
	if err == redis.Nil {
		return nil // already expired
	}
	if err != nil {
		return err
	}
	if val == owner {
		_, err := l.Client.Del(ctx, l.Key).Result()
		return err
	}
	return nil
}
