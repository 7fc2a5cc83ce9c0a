package middleware

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/ratelimit"
	"github.com/pczin9531-tech/RobloxStudioMobileApi/internal/service"
)

// RateLimit counts every request per client IP. A limiter backend failure
// lets the request through.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		res, err := limiter.Allow(ctx, c.ClientIP())
		if err != nil {
			slog.WarnContext(ctx, "rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			retryAfter := res.RetryAfter(time.Now())
			c.Header("Retry-After", strconv.Itoa(int(retryAfter/time.Second)))
			slog.InfoContext(ctx, "rate limit exceeded", "client_ip", c.ClientIP())
			abortWithError(c, service.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}

// UnderPath runs h only for requests at prefix or below it, so group
// middleware can also guard the NoRoute chain.
func UnderPath(prefix string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p := c.Request.URL.Path; p == prefix || strings.HasPrefix(p, prefix+"/") {
			h(c)
			return
		}
		c.Next()
	}
}
