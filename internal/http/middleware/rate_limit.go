package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/fme-backend/internal/logger"
)

// RateLimitMiddleware ограничивает количество запросов с одного IP.
// По умолчанию: 10 запросов в минуту. Хранилище общее для всех групп,
// поэтому ключ включает имя группы.
func RateLimitMiddleware(store limiter.Store, group string, limit int64, period time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = 1 * time.Minute
	}

	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}
	instance := limiter.New(store, rate)

	return func(c *gin.Context) {
		key := group + ":" + c.ClientIP()
		context, err := instance.Get(c.Request.Context(), key)
		if err != nil {
			// Хранилище недоступно: пропускаем запрос, а не роняем API.
			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"group": group,
					"error": err.Error(),
				}).Warn("rate limit: хранилище недоступно")
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", context.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", context.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", context.Reset))

		if context.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, try again later",
			})
			return
		}

		c.Next()
	}
}
