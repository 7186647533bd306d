package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/interfaces/http/response"
	"payportal.backend/pkg/logger"
	"payportal.backend/pkg/metrics"
	"payportal.backend/pkg/redis"
)

var (
	redisReady      = func() bool { return redis.GetClient() != nil }
	redisIncrWindow = redis.IncrWindow
	redisCount      = redis.Count
)

// RateLimit allows max requests per window per client IP. Counters live in
// Redis so every instance shares them; a Redis failure lets the request through.
func RateLimit(name string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max <= 0 || !redisReady() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("ratelimit:%s:%s", name, c.ClientIP())
		n, ttl, err := redisIncrWindow(ctx, key, window)
		if err != nil {
			logger.Warn(ctx, "Rate limiter unavailable", zap.String("limiter", name), zap.Error(err))
			c.Next()
			return
		}

		remaining := int64(max) - n
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if n > int64(max) {
			c.Header("Retry-After", retryAfter(ttl))
			response.Abort(c, domainerrors.TooManyRequests("Too many requests, please try again later"))
			return
		}
		c.Next()
	}
}

// BruteForceGuard blocks a client IP after max failed logins inside window.
// A 401 from the handler counts as a failure; a 200 clears the counter.
func BruteForceGuard(name string, max int, window time.Duration, reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max <= 0 || !redisReady() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("bruteforce:%s:%s", name, c.ClientIP())

		n, ttl, err := redisCount(ctx, key)
		if err != nil {
			logger.Warn(ctx, "Brute force guard unavailable", zap.String("guard", name), zap.Error(err))
			c.Next()
			return
		}
		if n >= int64(max) {
			c.Header("Retry-After", retryAfter(ttl))
			response.Abort(c, domainerrors.TooManyRequests("Too many failed login attempts, please try again later"))
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			reg.LoginFailed(name)
			if _, _, err := redisIncrWindow(ctx, key, window); err != nil {
				logger.Warn(ctx, "Failed to record login failure", zap.String("guard", name), zap.Error(err))
			}
		case http.StatusOK:
			if err := redisDel(ctx, key); err != nil {
				logger.Warn(ctx, "Failed to reset login failures", zap.String("guard", name), zap.Error(err))
			}
		}
	}
}

func retryAfter(ttl time.Duration) string {
	if ttl <= 0 {
		return "1"
	}
	return strconv.Itoa(int(math.Ceil(ttl.Seconds())))
}
