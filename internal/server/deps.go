package server

import (
	"context"
	"time"

	"github.com/mesaverdecleaning/site/internal/config"
	"github.com/mesaverdecleaning/site/internal/logging"
	"github.com/mesaverdecleaning/site/internal/ratelimit"
	"github.com/mesaverdecleaning/site/internal/service"

	"github.com/redis/go-redis/v9"
)

// BuildDependencies wires the limiter, verifier and relay from configuration.
// Missing mail or reCAPTCHA credentials are logged, not returned: the
// endpoint reports them per request.
func BuildDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	logger := logging.GetGlobalLogger()
	deps := &Dependencies{}

	sender, err := service.NewSender(cfg)
	if err != nil {
		logger.Warn("%v; contact submissions will be rejected", err)
	}
	deps.Relay = service.NewContactMailService(sender, cfg.Mail, cfg.SiteName)

	if cfg.Recaptcha.SecretKey == "" {
		logger.Warn("RECAPTCHA_SECRET_KEY is not set; every submission will fail verification")
	}
	deps.Verifier = service.NewRecaptchaService(cfg.Recaptcha, cfg.Timeout)

	switch cfg.RateLimit.Store {
	case config.RateLimitStoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		deps.closers = append(deps.closers, rdb.Close)

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("Redis at %s is unreachable, rate limiting will fail open until it recovers: %v", cfg.RateLimit.RedisAddr, err)
		}

		deps.Limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.MaxRequests, cfg.RateLimitWindow())
		logger.Info("Using Redis rate limit store at %s", cfg.RateLimit.RedisAddr)
	default:
		deps.Limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimitWindow())
	}

	return deps, nil
}
