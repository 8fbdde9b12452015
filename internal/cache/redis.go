package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/krsingh2254/flightbooking/config"
	"github.com/redis/go-redis/v9"
)

// RedisLocker serializes booking workflows per flight id. Decrements against
// the remote inventory are absolute writes, so only one booking may run the
// fetch-persist-decrement sequence for a flight at a time.
type RedisLocker struct {
	client     *redis.Client
	retries    int
	retryDelay time.Duration
}

func NewRedisLocker(cfg config.RedisConfig, retries int, retryDelay time.Duration) *RedisLocker {
	return &RedisLocker{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		retries:    retries,
		retryDelay: retryDelay,
	}
}

// AcquireFlightLock attempts SetNX on the flight's lock key, retrying a
// bounded number of times. Returns false when the lock stays held.
func (l *RedisLocker) AcquireFlightLock(ctx context.Context, flightID int64, ttl time.Duration) (bool, error) {
	attempts := l.retries + 1
	for i := 0; i < attempts; i++ {
		ok, err := l.client.SetNX(ctx, flightLockKey(flightID), "locked", ttl).Result()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(l.retryDelay):
		}
	}
	return false, nil
}

func (l *RedisLocker) ReleaseFlightLock(ctx context.Context, flightID int64) error {
	return l.client.Del(ctx, flightLockKey(flightID)).Err()
}

func flightLockKey(flightID int64) string {
	return fmt.Sprintf("lock:flight:%d", flightID)
}
