// Package redis provides the Redis client and the analysis result cache.
package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/wattwise/HomeAudit-Intelligence/internal/config"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
)

// Connect builds a Redis client from configuration and verifies it with a
// ping.  The caller owns the returned client and must Close it on shutdown.
func Connect(ctx context.Context, cfg config.RedisConfig, log logging.Logger) (*goredis.Client, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "redis ping failed")
	}

	log.Info("redis connection established", logging.String("addr", cfg.Addr))
	return client, nil
}
