package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/landsurveyors/directory-api/internal/api/metrics"
	"github.com/landsurveyors/directory-api/internal/core/domain"
)

// WindowCounter counts hits per key in fixed windows.
type WindowCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, reset time.Duration, err error)
}

// RateLimitConfig limits each client IP to Limit requests per Window.
type RateLimitConfig struct {
	Scope  string
	Limit  int64
	Window time.Duration
}

// RateLimit enforces cfg per client IP using counter. When the counter fails
// the request is let through and the failure logged.
func RateLimit(counter WindowCounter, cfg RateLimitConfig, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := cfg.Scope + ":" + c.RealIP()
			n, reset, err := counter.Hit(c.Request().Context(), key, cfg.Window)
			if err != nil {
				log.Warn().Err(err).Str("scope", cfg.Scope).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			remaining := max(cfg.Limit-n, 0)
			h := c.Response().Header()
			h.Set("RateLimit-Limit", strconv.FormatInt(cfg.Limit, 10))
			h.Set("RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			h.Set("RateLimit-Reset", strconv.Itoa(int(reset.Round(time.Second)/time.Second)))

			if n > cfg.Limit {
				metrics.RateLimitedTotal.WithLabelValues(cfg.Scope).Inc()
				h.Set("Retry-After", strconv.Itoa(int(reset.Round(time.Second)/time.Second)))
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}
