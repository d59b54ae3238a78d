package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"wellnest/models"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type RateLimiter struct {
	redisClient *redis.Client
	maxRequests int
	window      time.Duration
}

func NewRateLimiter(redisClient *redis.Client, maxRequests int, window time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = 100
	}
	if window <= 0 {
		window = time.Minute
	}

	return &RateLimiter{
		redisClient: redisClient,
		maxRequests: maxRequests,
		window:      window,
	}
}

// Limit enforces a sliding-window request budget per user, falling back
// to the client IP before authentication. Redis outages fail open.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.redisClient == nil {
			c.Next()
			return
		}

		identity := c.GetString("userID")
		if identity == "" {
			identity = c.ClientIP()
		}

		key := "rate_limit:" + identity
		now := time.Now()
		windowStart := now.Add(-rl.window)

		ctx := c.Request.Context()
		pipe := rl.redisClient.TxPipeline()
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
		pipe.ZAdd(ctx, key, &redis.Z{
			Score:  float64(now.UnixNano()),
			Member: fmt.Sprintf("%d", now.UnixNano()),
		})
		countCmd := pipe.ZCard(ctx, key)
		pipe.Expire(ctx, key, rl.window)

		if _, err := pipe.Exec(ctx); err != nil {
			logrus.Warnf("Rate limiter unavailable: %v", err)
			c.Next()
			return
		}

		count := countCmd.Val()
		remaining := int64(rl.maxRequests) - count
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(rl.maxRequests) {
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "RATE_LIMITED",
				Message: "Too many requests, please slow down",
				Code:    models.ErrCodeRateLimit,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
