package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultThrottleWindow = time.Minute
	defaultThrottleLimit  = 20
)

// Throttle provides a fixed-window request counter backed by Redis, used to
// slow down credential guessing on the auth routes.
// Key format: throttle:<scope>:<client_key>
type Throttle struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewThrottle creates a Throttle allowing limit hits per window. Zero values
// fall back to defaults.
func NewThrottle(client *redis.Client, limit int64, window time.Duration) *Throttle {
	if limit <= 0 {
		limit = defaultThrottleLimit
	}
	if window <= 0 {
		window = defaultThrottleWindow
	}
	return &Throttle{client: client, limit: limit, window: window}
}

// Allow increments the counter for key within scope and reports whether the
// caller is still under the limit. The window TTL is set on first hit.
func (t *Throttle) Allow(ctx context.Context, scope, key string) (bool, error) {
	k := fmt.Sprintf("throttle:%s:%s", scope, key)

	n, err := t.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, k, t.window).Err(); err != nil {
			return false, fmt.Errorf("throttle expire: %w", err)
		}
	}
	return n <= t.limit, nil
}
