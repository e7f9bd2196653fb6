package handlers

import (
	"net/http"

	"HibiscusAlert/internal/identity"
	"HibiscusAlert/pkg/response"

	"github.com/gin-gonic/gin"
)

type followRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r *followRequest) validate() string {
	if r.From == "" || r.To == "" {
		return "from and to are required"
	}
	if r.From == r.To {
		return "can not follow yourself"
	}
	if r.From == identity.Anonymous || r.To == identity.Anonymous {
		return "anonymous users can not follow"
	}
	return ""
}

// Follow 建立关注关系（双向镜像边成对写入）
func (h *Handlers) Follow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if err := h.graph.Follow(c.Request.Context(), req.From, req.To); err != nil {
		response.Fail(c, "can not follow user", nil)
		return
	}
	response.Success(c, "followed", nil)
}

// Unfollow 解除关注关系
func (h *Handlers) Unfollow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.From == "" || req.To == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}

	if err := h.graph.Unfollow(c.Request.Context(), req.From, req.To); err != nil {
		response.Fail(c, "can not unfollow user", nil)
		return
	}
	response.Success(c, "unfollowed", nil)
}

// ListSubscriptions 某身份关注的用户列表；读失败降级为空
func (h *Handlers) ListSubscriptions(c *gin.Context) {
	hash := c.Param("hash")
	subs := h.graph.ListSubscriptions(c.Request.Context(), hash)
	response.Success(c, "get subscriptions", subs)
}
