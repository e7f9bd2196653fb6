package store

import (
	"context"

	"gorm.io/gorm"
)

// Alert 设备本地告警记录，只追加，唯一可变字段是 comment
type Alert struct {
	ID        uint  `gorm:"primaryKey"`
	Timestamp int64 `gorm:"index"`
	Date      string
	Latitude  float64
	Longitude float64
	Location  string
	PhotoPath string
	Comment   string `gorm:"not null;default:''"`
}

func (Alert) TableName() string { return "alerts" }

// AlertStore 本地告警存储
type AlertStore struct {
	db *gorm.DB
}

func NewAlertStore(db *gorm.DB) (*AlertStore, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &AlertStore{db: db}, nil
}

// Migrate 迁移本地表结构。
// 旧版（7 列，无 comment）只追加列，既有行保留且 comment 为空串。
func Migrate(db *gorm.DB) error {
	m := db.Migrator()
	if m.HasTable(&Alert{}) && !m.HasColumn(&Alert{}, "comment") {
		return db.Exec("ALTER TABLE alerts ADD COLUMN comment TEXT NOT NULL DEFAULT ''").Error
	}
	return db.AutoMigrate(&Alert{})
}

// Insert 写入一条告警并回填自增 ID
func (s *AlertStore) Insert(ctx context.Context, alert *Alert) (uint, error) {
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return 0, err
	}
	return alert.ID, nil
}

// ListAll 按触发时间倒序返回全部告警
func (s *AlertStore) ListAll(ctx context.Context) ([]Alert, error) {
	var alerts []Alert
	err := s.db.WithContext(ctx).Order("timestamp DESC").Find(&alerts).Error
	return alerts, err
}

// GetByID 按 ID 查询；不存在返回 gorm.ErrRecordNotFound
func (s *AlertStore) GetByID(ctx context.Context, id uint) (*Alert, error) {
	var alert Alert
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// Update 整行替换（目前只用于保存备注编辑）
func (s *AlertStore) Update(ctx context.Context, alert *Alert) error {
	return s.db.WithContext(ctx).Save(alert).Error
}
