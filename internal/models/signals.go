package models

// 模型事件信号名
const (
	SigAlertCreate = "alert:create"
	SigUserCreate  = "user:create"
)
