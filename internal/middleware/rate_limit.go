package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bookmart/internal/caching"
	"bookmart/internal/common"
	"bookmart/internal/log"
)

// RateLimit rejects clients that exceed limit requests per window on the
// route it is attached to. Counters live in Redis keyed by client IP and
// route, so the limit holds across instances. When Redis is unreachable the
// request is allowed through.
func RateLimit(cache caching.CacheService, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP() + ":" + c.Path()

			limited, err := cache.IsRateLimited(c.Request().Context(), key, limit, window)
			if err != nil {
				log.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			if limited {
				return c.JSON(http.StatusTooManyRequests,
					common.CreateErrorResponse("RATE_LIMITED", "too many requests, slow down", nil))
			}

			return next(c)
		}
	}
}
