package handlers

import (
	"net/http"
	"path"
	"time"

	"HibiscusAlert/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadPhoto 接收设备拍摄的照片，落对象存储后返回公开地址，
// 该地址即告警的 photoPath
func (h *Handlers) UploadPhoto(c *gin.Context) {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()

	ext := path.Ext(header.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := time.Now().UTC().Format("20060102") + "/" + uuid.NewString() + ext

	if err := h.photos.Write(key, file); err != nil {
		response.Fail(c, "can not store photo", nil)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key, "url": h.photos.PublicURL(key)})
}
