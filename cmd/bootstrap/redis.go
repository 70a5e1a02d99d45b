package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"meeting-room-booking/internal/infra/ratelimit"
	"meeting-room-booking/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRateLimiter,
	),
)

// NewRateLimiter degrades to a per-process limiter when Redis is disabled
// or unreachable at startup.
func NewRateLimiter(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) ratelimit.Limiter {
	if !cfg.Redis.Enabled {
		return ratelimit.NewMemoryLimiter(cfg.RateLimit)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, using in-process rate limiter", "addr", cfg.Redis.Addr, "error", err.Error())
		_ = client.Close()
		return ratelimit.NewMemoryLimiter(cfg.RateLimit)
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return ratelimit.NewRedisLimiter(client, cfg.RateLimit)
}
