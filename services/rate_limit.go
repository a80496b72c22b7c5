package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

// RateLimitService is a Redis fixed-window limiter guarding the auth
// endpoints. When Redis is unreachable requests pass through; availability
// wins over strictness here.
type RateLimitService struct {
	appContext.DefaultService

	redisSvc *RedisService

	maxAttempts int
	window      time.Duration
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.maxAttempts = 10
	if v := os.Getenv("RATE_LIMIT_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			svc.maxAttempts = parsed
		}
	}

	svc.window = time.Minute
	if v := os.Getenv("RATE_LIMIT_WINDOW_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			svc.window = time.Duration(parsed) * time.Second
		}
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// Limit returns a middleware bucketing by client IP under the given scope.
func (svc *RateLimitService) Limit(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("rate:%s:%s", scope, clientIP(c))

		ctx := context.Background()
		count, err := svc.redisSvc.Increment(ctx, key)
		if err != nil {
			log.WithField("error", err.Error()).Warn("Rate limit check failed, allowing request")
			return c.Next()
		}

		if count == 1 {
			if err := svc.redisSvc.Expire(ctx, key, svc.window); err != nil {
				log.WithField("error", err.Error()).Warn("Failed to set rate limit window")
			}
		}

		if count > int64(svc.maxAttempts) {
			return shared.ResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", nil)
		}

		return c.Next()
	}
}

func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.IP()
}
