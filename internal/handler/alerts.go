package handlers

import (
	"net/http"

	"HibiscusAlert/internal/identity"
	"HibiscusAlert/internal/models"
	"HibiscusAlert/pkg/metrics"
	"HibiscusAlert/pkg/response"
	"HibiscusAlert/pkg/util"

	"github.com/gin-gonic/gin"
)

// CreateAlert 新建云端告警记录并触发扇出信号。
// 记录创建后不可变，没有更新/删除接口。
func (h *Handlers) CreateAlert(c *gin.Context) {
	var req struct {
		UserHash  string  `json:"userHash"`
		Timestamp int64   `json:"timestamp"`
		Date      string  `json:"date"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Location  string  `json:"location"`
		PhotoPath string  `json:"photoPath"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserHash == "" || req.UserHash == identity.Anonymous {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userHash is required"})
		return
	}
	if req.Timestamp <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "timestamp is required"})
		return
	}

	alert := models.RemoteAlert{
		UserHash:  req.UserHash,
		Timestamp: req.Timestamp,
		Date:      req.Date,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Location:  req.Location,
		PhotoPath: req.PhotoPath,
	}
	if err := h.db.Create(&alert).Error; err != nil {
		response.Fail(c, "can not create alert", nil)
		return
	}

	metrics.AlertsCreated.Inc()
	util.Sig().Emit(models.SigAlertCreate, &alert)

	c.JSON(http.StatusCreated, gin.H{"alertId": alert.ID})
}

// ListAlerts 按创建者查询告警，按时间倒序
func (h *Handlers) ListAlerts(c *gin.Context) {
	query := h.db.Model(&models.RemoteAlert{}).Order("timestamp DESC")
	if user := c.Query("user"); user != "" {
		query = query.Where("user_hash = ?", user)
	}

	var alerts []models.RemoteAlert
	if err := query.Find(&alerts).Error; err != nil {
		response.Fail(c, "can not find alert records", nil)
		return
	}
	response.Success(c, "get alerts", alerts)
}

// GetAlert 按 ID 查询单条告警
func (h *Handlers) GetAlert(c *gin.Context) {
	id := c.Param("id")

	var alert models.RemoteAlert
	if err := h.db.Where("id = ?", id).First(&alert).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}
	response.Success(c, "get alert", alert)
}
