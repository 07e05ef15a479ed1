package health

import (
	"fmt"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/cache"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/config"
	"github.com/hellofresh/health-go/v5"
	healthHttp "github.com/hellofresh/health-go/v5/checks/http"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const (
	componentName    = "lankabuy-console"
	componentVersion = "1.0.0"
)

// NewHealthHandler checks the storefront backend and, when the session store
// runs on redis, the redis server.
func NewHealthHandler(cfg *config.Config) (*health.Health, error) {

	checks := []health.Config{
		{
			Name:      "backend",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: healthHttp.New(healthHttp.Config{
				URL:            strings.TrimRight(cfg.Backend.BaseURL, "/") + "/products",
				RequestTimeout: 3 * time.Second,
			}),
		},
	}

	if cfg.Cache.Driver == cache.DriverRedis {
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: true,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    componentName,
			Version: componentVersion,
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
