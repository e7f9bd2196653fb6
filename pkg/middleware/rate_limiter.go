package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiterConfig 限流配置
//
// Rate 形如 "10-M"（每分钟 10 次）、"100-H"；按客户端 IP 限流。
type RateLimiterConfig struct {
	Rate        string `json:"rate"`
	DenyMessage string `json:"deny_message"`
}

// RateLimiter 基于内存存储的 IP 限流中间件
func RateLimiter(cfg RateLimiterConfig) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		// 配置非法时放行并退化为无限流
		return func(c *gin.Context) { c.Next() }
	}

	instance := limiter.New(memory.NewStore(), rate)
	denyMessage := cfg.DenyMessage
	if denyMessage == "" {
		denyMessage = "too many requests"
	}

	return func(c *gin.Context) {
		lctx, err := instance.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.Next()
			return
		}
		if lctx.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"code": 1, "message": denyMessage})
			return
		}
		c.Next()
	}
}
