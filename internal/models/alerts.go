package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 云端告警记录，创建后不可变（无更新/删除路径）
type RemoteAlert struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserHash  string `gorm:"size:64;index"`
	Timestamp int64
	Date      string
	Latitude  float64
	Longitude float64
	Location  string
	PhotoPath string
	CreatedAt time.Time
}

func (a *RemoteAlert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Migrate 服务端表结构迁移
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserProfile{},
		&FollowerEdge{},
		&SubscriptionEdge{},
		&PushToken{},
		&RemoteAlert{},
	)
}
