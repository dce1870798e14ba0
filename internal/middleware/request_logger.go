package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bookmart/internal/log"
)

// RequestLogger logs each completed request with method, path, status and
// latency. Probe and documentation traffic is skipped to keep the log useful.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			method := c.Request().Method
			path := c.Request().URL.Path
			if shouldSkipLogging(method, path) {
				return err
			}

			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				}
			}

			fields := []zap.Field{
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			switch {
			case status >= 500:
				log.Error("request failed", fields...)
			case status >= 400:
				log.Warn("request rejected", fields...)
			default:
				log.Info("request completed", fields...)
			}

			return err
		}
	}
}

// shouldSkipLogging filters out noise from probes and static documentation
func shouldSkipLogging(method, path string) bool {
	if method != "GET" {
		return false
	}

	skipPrefixes := []string{
		"/health",
		"/swagger",
		"/favicon",
		"/robots.txt",
	}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
