package cache

import (
	"context"
	"time"
)

// Cache stores console session state. The memory driver lives for one run;
// the redis driver lets the signed-in user survive a restart.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

const (
	SessionKeyPrefix = "session"
	CurrentUserKey   = "currentUser"
)

func Key(prefix string, id string) string {
	return prefix + ":" + id
}
