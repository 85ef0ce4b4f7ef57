package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/exlity/admin-backend/internal/core/ports"
)

const (
	defaultLimit  = 10
	limitWindow   = time.Minute
	loginKeyspace = "loginlimit"
)

// LoginThrottle rate-limits login attempts per client key using a fixed
// window in Redis. Key format: loginlimit:<client key>
type LoginThrottle struct {
	client *redis.Client
	limit  int
}

var _ ports.LoginThrottle = (*LoginThrottle)(nil)

// NewLoginThrottle creates a throttle allowing limit attempts per minute per
// key. If limit <= 0, defaultLimit is used.
func NewLoginThrottle(client *redis.Client, limit int) *LoginThrottle {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &LoginThrottle{client: client, limit: limit}
}

// Allow counts an attempt for key and reports whether it is within the
// window's budget. The window starts at the first attempt and expires with
// the counter.
func (t *LoginThrottle) Allow(ctx context.Context, key string) (bool, error) {
	counter := fmt.Sprintf("%s:%s", loginKeyspace, key)
	n, err := t.client.Incr(ctx, counter).Result()
	if err != nil {
		return false, fmt.Errorf("login throttle: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, counter, limitWindow).Err(); err != nil {
			return false, fmt.Errorf("login throttle expire: %w", err)
		}
	}
	return n <= int64(t.limit), nil
}
