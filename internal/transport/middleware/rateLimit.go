package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/evreg/registration-service/config"
)

// RateLimit is a fixed-window counter backed by Redis, keyed by client IP.
// Unlike an in-process map it holds across multiple service instances. It
// fails open: a Redis error lets the request through with a warning.
func RateLimit(client *redis.Client, cfg config.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || client == nil {
			c.Next()
			return
		}

		window := time.Now().Unix() / int64(cfg.Window.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), window)

		ctx := c.Request.Context()
		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			logrus.Warnf("Rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, cfg.Window)
		}

		if count > int64(cfg.Requests) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   gin.H{"message": "rate limit exceeded", "code": "RATE_LIMITED"},
				"data":    nil,
			})
			return
		}

		c.Next()
	}
}
