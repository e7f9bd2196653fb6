package settings

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 常用命名空间与键
const (
	NSUserPrefs   = "user_prefs"
	NSAppSettings = "app_settings"

	KeyUserHash     = "user_hash"
	KeyLanguageCode = "language_code"

	DefaultLanguage = "es"
)

// Entry 键值设置项（设备端偏好存储）
type Entry struct {
	Namespace string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"primaryKey;size:64"`
	Value     string
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "settings" }

// Store 键值设置存储
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// GetString 读取设置，缺失时返回默认值
func (s *Store) GetString(namespace, key, def string) string {
	var entry Entry
	err := s.db.Where("namespace = ? AND key = ?", namespace, key).First(&entry).Error
	if err != nil {
		return def
	}
	return entry.Value
}

// SetString 写入设置（upsert）
func (s *Store) SetString(namespace, key, value string) error {
	entry := Entry{Namespace: namespace, Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Clear 清空某命名空间下的全部设置（登出时用）
func (s *Store) Clear(namespace string) error {
	return s.db.Where("namespace = ?", namespace).Delete(&Entry{}).Error
}

// LanguageCode 应用语言，默认西班牙语
func (s *Store) LanguageCode() string {
	return s.GetString(NSAppSettings, KeyLanguageCode, DefaultLanguage)
}
