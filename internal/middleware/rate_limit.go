package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/osvaldoandrade/storeq/internal/metrics"
	"github.com/osvaldoandrade/storeq/internal/ratelimit"
	"github.com/osvaldoandrade/storeq/pkg/config"
)

// RateLimitLogin throttles credential guessing per client address.
func RateLimitLogin(lim ratelimit.Limiter, cfg *config.Config) gin.HandlerFunc {
	return rateLimitClient(lim, "auth", "login", cfg.RateLimit.Login)
}

// RateLimitRegister shares the login bucket settings but counts separately,
// so a burst of signups does not lock out logins from the same address.
func RateLimitRegister(lim ratelimit.Limiter, cfg *config.Config) gin.HandlerFunc {
	return rateLimitClient(lim, "auth", "register", cfg.RateLimit.Login)
}

func rateLimitClient(lim ratelimit.Limiter, scope string, operation string, bcfg config.RateLimitBucketConfig) gin.HandlerFunc {
	bucket := ratelimit.Bucket{RequestsPerMinute: bcfg.RequestsPerMinute, BurstSize: bcfg.BurstSize}
	return func(c *gin.Context) {
		if lim == nil || !bucket.Enabled() {
			c.Next()
			return
		}

		client := c.ClientIP()
		if client == "" {
			// Nothing to key on.
			c.Next()
			return
		}

		dec, err := lim.Allow(c.Request.Context(), operation, client, bucket)
		if err != nil {
			// Fail open so a redis hiccup does not lock everyone out.
			slog.Default().Warn("rate limit check failed", "scope", scope, "op", operation, "err", err)
			c.Next()
			return
		}
		if dec.Allowed {
			c.Next()
			return
		}

		retryAfterSeconds := int(dec.RetryAfter.Seconds())
		if retryAfterSeconds <= 0 {
			retryAfterSeconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		metrics.RateLimitHitsTotal.WithLabelValues(scope, operation).Inc()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"success":           false,
			"error":             "rate limit exceeded",
			"retryAfterSeconds": retryAfterSeconds,
		})
	}
}
