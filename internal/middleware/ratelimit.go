package middleware

import (
	"fmt"
	"time"

	"github.com/ads-marketplace/adcopy/internal/http/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware is a fixed-window counter in redis keyed by path and
// caller. A nil client or a redis failure lets the request through.
func RateLimitMiddleware(rdb *redis.Client, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rdb == nil || limit <= 0 {
			return c.Next()
		}

		key := rateLimitKey(c)

		ctx := c.UserContext()
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			return c.Next() // fail open
		}

		if count == 1 {
			rdb.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			c.Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: "rate limit exceeded",
			})
		}

		return c.Next()
	}
}

// rateLimitKey counts authenticated callers by subject so one token shares a
// budget across addresses; anonymous callers are counted by IP.
func rateLimitKey(c *fiber.Ctx) string {
	caller := c.IP()
	if subject, ok := c.Locals(CtxSubject).(string); ok && subject != "" && subject != AnonymousSubject {
		caller = "sub:" + subject
	}
	return fmt.Sprintf("rl:%s:%s", c.Path(), caller)
}
