package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"bookworm/internal/cache"
	"bookworm/internal/metrics"
)

// LoginRateLimiter limits login attempts per client IP using redis counters.
// When redis is unavailable the counter reads zero and requests pass through.
func LoginRateLimiter(c *cache.Client, limit int64, window time.Duration) echo.MiddlewareFunc {
	const limiterName = "login"
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			key := fmt.Sprintf("bw:rl:%s:%s", limiterName, ec.RealIP())
			count, err := c.IncrWindow(ec.Request().Context(), key, window)
			if err != nil || count == 0 {
				return next(ec)
			}
			if count > limit {
				metrics.IncRateLimit(limiterName)
				ec.Response().Header().Set("Retry-After", fmt.Sprintf("%.f", window.Seconds()))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
			}
			ec.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			ec.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", limit-count))
			return next(ec)
		}
	}
}
