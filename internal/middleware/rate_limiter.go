package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tukyboy007/hospital-back/pkg/logger"
	"github.com/Tukyboy007/hospital-back/pkg/redis"
	"github.com/Tukyboy007/hospital-back/pkg/response"
)

// RateLimit applies a fixed-window per-IP limit backed by Redis. It is meant
// for the credential endpoints, where unthrottled guessing is the threat.
// Redis errors fail open so an outage does not lock everyone out.
func RateLimit(client *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())

		count, err := client.Incr(c.Request.Context(), key, window)
		if err != nil {
			logger.Get().Warn("rate limiter unavailable, failing open", zap.Error(err))
			c.Next()
			return
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.AbortError(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many attempts. Please retry later.")
			return
		}
		c.Next()
	}
}
