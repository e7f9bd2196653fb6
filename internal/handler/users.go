package handlers

import (
	"context"
	"net/http"

	"HibiscusAlert/internal/fanout"
	"HibiscusAlert/internal/models"
	"HibiscusAlert/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// Login 交换账号ID得到对外身份，并合并写用户档案
func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		AccountID   string `json:"accountId"`
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash := h.identity.Ensure(c.Request.Context(), req.AccountID, req.DisplayName, req.Email)
	response.Success(c, "login ok", gin.H{"hash": hash})
}

// RegisterToken 幂等注册设备推送 token（设备每次启动重注册）
func (h *Handlers) RegisterToken(c *gin.Context) {
	hash := c.Param("hash")

	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	registration := models.PushToken{Hash: hash, Token: req.Token}
	if err := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&registration).Error; err != nil {
		response.Fail(c, "can not register push token", nil)
		return
	}

	h.invalidateTokens(c.Request.Context(), hash)
	response.Success(c, "token registered", nil)
}

// UnregisterToken 注销设备推送 token
func (h *Handlers) UnregisterToken(c *gin.Context) {
	hash := c.Param("hash")
	token := c.Param("token")

	if err := h.db.Where("hash = ? AND token = ?", hash, token).
		Delete(&models.PushToken{}).Error; err != nil {
		response.Fail(c, "can not unregister push token", nil)
		return
	}

	h.invalidateTokens(c.Request.Context(), hash)
	response.Success(c, "token unregistered", nil)
}

// GetProfile 读取用户档案
func (h *Handlers) GetProfile(c *gin.Context) {
	hash := c.Param("hash")

	var profile models.UserProfile
	if err := h.db.Where("hash = ?", hash).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	response.Success(c, "get profile", profile)
}

func (h *Handlers) invalidateTokens(ctx context.Context, hash string) {
	if h.cache != nil {
		_ = h.cache.Delete(ctx, fanout.TokensKey(hash))
	}
}
