package cache

import (
	"context"
	"fmt"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/config"
)

// New picks the driver named in cfg.Cache.Driver.
func New(ctx context.Context, cfg *config.Config) (Cache, error) {
	switch cfg.Cache.Driver {
	case "", DriverMemory:
		return NewMemoryCache(&cfg.Cache), nil
	case DriverRedis:
		client, err := NewRedisClient(ctx, &cfg.RedisConnect)
		if err != nil {
			return nil, err
		}

		return NewRedisCache(client, &cfg.Cache), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}
