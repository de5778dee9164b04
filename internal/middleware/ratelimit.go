package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"fintrack/internal/cache"
	apperrors "fintrack/internal/errors"
)

// RateLimit allows each client IP perMinute requests per minute, with bursts
// of the same size. Idle limiters are forgotten after a minute.
func RateLimit(perMinute int) gin.HandlerFunc {
	limit := rate.Limit(float64(perMinute) / 60.0)
	limiters := cache.NewLRU[*rate.Limiter](10000, time.Minute, cache.WithSlidingExpiry[*rate.Limiter]())

	return func(c *gin.Context) {
		limiter, _ := limiters.GetOrSet(c.ClientIP(), func() *rate.Limiter {
			return rate.NewLimiter(limit, perMinute)
		})
		if !limiter.Allow() {
			abortWithError(c, apperrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}
