package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HansTydecks/fast-lessonplan/pkg/redis"
	"github.com/HansTydecks/fast-lessonplan/pkg/response"
)

// RateLimit 按客户端 IP 的固定窗口限流，计数保存在 Redis。
// rdb 为 nil、limit<=0 或 Redis 出错时放行。
// 所有 /api/v1 路由共享一个计数，上游假期请求才是要保护的资源。
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("lessonplan:rate_limit:%s", c.ClientIP())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		if !allowed {
			c.Header("Retry-After", retryAfter)
			response.Error(c, http.StatusTooManyRequests, 10004, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
