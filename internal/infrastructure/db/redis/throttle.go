package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	throttleWindow = 15 * time.Minute
	maxFailures    = 5
)

// SigninThrottle counts failed signin attempts per username in Redis.
// Key format: signin_fail:<username>, expiring after throttleWindow.
type SigninThrottle struct {
	client *redis.Client
}

// NewSigninThrottle creates a SigninThrottle wrapping the given Redis client.
func NewSigninThrottle(client *redis.Client) *SigninThrottle {
	return &SigninThrottle{client: client}
}

// TooManyFailures reports whether the username has exhausted its attempts
// within the current window.
func (t *SigninThrottle) TooManyFailures(ctx context.Context, username string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(username)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= maxFailures, nil
}

// RecordFailure increments the failure counter and refreshes its expiry.
func (t *SigninThrottle) RecordFailure(ctx context.Context, username string) error {
	key := t.key(username)
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, throttleWindow)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("throttle record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful signin.
func (t *SigninThrottle) Reset(ctx context.Context, username string) error {
	return t.client.Del(ctx, t.key(username)).Err()
}

func (t *SigninThrottle) key(username string) string {
	return "signin_fail:" + username
}
