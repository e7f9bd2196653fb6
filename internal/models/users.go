package models

import "time"

// 用户档案，主键为账号ID的 SHA-256 摘要（对外唯一身份）
type UserProfile struct {
	Hash        string `gorm:"primaryKey;size:64"`
	DisplayName string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// 粉丝镜像边：OwnerHash（被关注者）名下记录 Hash（关注者）
type FollowerEdge struct {
	ID        uint   `gorm:"primaryKey"`
	OwnerHash string `gorm:"size:64;uniqueIndex:idx_follower_edge"`
	Hash      string `gorm:"size:64;uniqueIndex:idx_follower_edge"`
	CreatedAt time.Time
}

// 订阅镜像边：OwnerHash（关注者）名下记录 Hash（被关注者）
// 与 FollowerEdge 成对写入，两边要么都在要么都不在
type SubscriptionEdge struct {
	ID        uint   `gorm:"primaryKey"`
	OwnerHash string `gorm:"size:64;uniqueIndex:idx_subscription_edge"`
	Hash      string `gorm:"size:64;uniqueIndex:idx_subscription_edge"`
	CreatedAt time.Time
}

// 设备推送 token 注册，设备每次启动幂等重注册
type PushToken struct {
	ID        uint   `gorm:"primaryKey"`
	Hash      string `gorm:"size:64;uniqueIndex:idx_push_token"`
	Token     string `gorm:"size:512;uniqueIndex:idx_push_token"`
	CreatedAt time.Time
}
