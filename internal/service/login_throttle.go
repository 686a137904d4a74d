package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const throttleKeyPrefix = "login_fail:"

// LoginThrottle is a Redis-backed LoginLimiter counting failed logins per
// identifier inside a fixed window. It fails open: a Redis outage must not
// lock everyone out.
type LoginThrottle struct {
	client *redis.Client
	max    int
	window time.Duration
	logger *zap.Logger
}

// NewLoginThrottle builds the throttle.
func NewLoginThrottle(client *redis.Client, max int, window time.Duration, logger *zap.Logger) *LoginThrottle {
	return &LoginThrottle{client: client, max: max, window: window, logger: logger}
}

// Allow reports whether the identifier is under the failure budget.
func (t *LoginThrottle) Allow(ctx context.Context, identifier string) bool {
	if t.client == nil || t.max <= 0 {
		return true
	}
	count, err := t.client.Get(ctx, throttleKeyPrefix+identifier).Int()
	if err != nil {
		if err != redis.Nil {
			t.logger.Warn("login throttle unavailable", zap.Error(err))
		}
		return true
	}
	return count < t.max
}

// RecordFailure increments the failure counter, starting the window on the
// first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, identifier string) {
	if t.client == nil {
		return
	}
	key := throttleKeyPrefix + identifier
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		t.logger.Warn("login throttle record failed", zap.Error(err))
	}
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, identifier string) {
	if t.client == nil {
		return
	}
	if err := t.client.Del(ctx, throttleKeyPrefix+identifier).Err(); err != nil {
		t.logger.Warn("login throttle reset failed", zap.Error(err))
	}
}
