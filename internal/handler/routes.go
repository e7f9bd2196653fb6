package handlers

import (
	"HibiscusAlert/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 挂载全部 API 路由
func (h *Handlers) RegisterRoutes(r *gin.Engine, apiPrefix, alertRate string) {
	api := r.Group(apiPrefix)
	{
		api.POST("/users/login", h.Login)
		api.GET("/users/:hash", h.GetProfile)
		api.POST("/users/:hash/tokens", h.RegisterToken)
		api.DELETE("/users/:hash/tokens/:token", h.UnregisterToken)
		api.GET("/users/:hash/subscriptions", h.ListSubscriptions)

		api.POST("/follows", h.Follow)
		api.DELETE("/follows", h.Unfollow)

		api.POST("/alerts", middleware.RateLimiter(middleware.RateLimiterConfig{Rate: alertRate}), h.CreateAlert)
		api.GET("/alerts", h.ListAlerts)
		api.GET("/alerts/:id", h.GetAlert)

		api.POST("/photos", h.UploadPhoto)
	}
}
