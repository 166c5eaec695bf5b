package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

// newRedisClient returns nil when no address is configured. Locks and
// the folder ingestion cursor degrade gracefully without redis.
func newRedisClient(cfg Config, log *logger.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, running without redis")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis ping failed, running without redis", "addr", cfg.RedisAddr, "error", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}
