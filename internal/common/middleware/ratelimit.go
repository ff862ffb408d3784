package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"flowclicker-backend/internal/common/errors"
)

// RateLimit is a fixed-window limiter keyed by client IP. The window counter
// lives in redis so all instances share the budget. When redis is down the
// limiter fails open: rejecting clicks because the limiter store is
// unreachable would take the whole game down with it.
func RateLimit(rdb *redis.Client, window time.Duration, maxRequests int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rate_limit:" + c.ClientIP()

		current, err := rdb.Get(c.Request.Context(), key).Int64()
		if err != nil && err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("Rate limiter store unavailable, allowing request")
			c.Next()
			return
		}

		if current >= int64(maxRequests) {
			AbortWithError(c, errors.NewRateLimitError(key))
			return
		}

		pipe := rdb.Pipeline()
		pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Rate limiter increment failed")
		}

		c.Next()
	}
}
