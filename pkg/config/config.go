package config

import (
	"log"
	"os"

	"HibiscusAlert/pkg/cache"
	"HibiscusAlert/pkg/logger"
	"HibiscusAlert/pkg/notification"
	"HibiscusAlert/pkg/util"
)

// config/config.go
type Config struct {
	DBDriver        string `env:"DB_DRIVER"`
	DSN             string `env:"DSN"`
	Addr            string `env:"ADDR"`
	Mode            string `env:"MODE"`
	APIPrefix       string `env:"API_PREFIX"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE"`
	AlertRate       string `env:"ALERT_RATE"` // 告警创建限流，如 "10-M"
	Log             logger.LogConfig
	Push            notification.FCMConfig
	Cache           cache.Config
	BackupEnabled   bool   `env:"BACKUP_ENABLED"`
	BackupPath      string `env:"BACKUP_PATH"`
	BackupSchedule  string `env:"BACKUP_SCHEDULE"`

	// agent 侧配置
	AgentDSN      string `env:"AGENT_DSN"`
	ServerBaseURL string `env:"SERVER_BASE_URL"`
	PhotoDir      string `env:"PHOTO_DIR"`
	AccountID     string `env:"ACCOUNT_ID"`
	DisplayName   string `env:"DISPLAY_NAME"`
	Email         string `env:"EMAIL"`
}

var GlobalConfig *Config

func Load() error {
	// 1. 根据环境加载 .env 文件
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development" // 默认使用开发环境
	}
	err := util.LoadEnv(env)
	if err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	// 2. 加载全局配置
	GlobalConfig = &Config{
		DBDriver:        util.GetEnv("DB_DRIVER"),
		DSN:             util.GetEnv("DSN"),
		Addr:            util.GetEnvDefault("ADDR", ":8080"),
		Mode:            util.GetEnv("MODE"),
		APIPrefix:       util.GetEnvDefault("API_PREFIX", "/api"),
		DefaultLanguage: util.GetEnvDefault("DEFAULT_LANGUAGE", "es"),
		AlertRate:       util.GetEnvDefault("ALERT_RATE", "10-M"),
		Log: logger.LogConfig{
			Level:      util.GetEnv("LOG_LEVEL"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE")),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE")),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS")),
		},
		Push: notification.FCMConfig{
			Endpoint:       util.GetEnvDefault("FCM_ENDPOINT", notification.DefaultFCMEndpoint),
			LegacyEndpoint: util.GetEnvDefault("FCM_LEGACY_ENDPOINT", notification.DefaultFCMLegacyEndpoint),
			ServerKey:      util.GetEnv("FCM_SERVER_KEY"),
			UseLegacy:      util.GetBoolEnv("FCM_USE_LEGACY"),
		},
		Cache: cache.Config{
			Type: util.GetEnvDefault("CACHE_TYPE", "local"),
			Redis: cache.RedisConfig{
				Addr:     util.GetEnvDefault("REDIS_ADDR", "localhost:6379"),
				Password: util.GetEnv("REDIS_PASSWORD"),
				DB:       int(util.GetIntEnv("REDIS_DB")),
			},
		},
		BackupEnabled:  util.GetBoolEnv("BACKUP_ENABLED"),
		BackupPath:     util.GetEnvDefault("BACKUP_PATH", "backups"),
		BackupSchedule: util.GetEnvDefault("BACKUP_SCHEDULE", "0 3 * * *"),

		AgentDSN:      util.GetEnvDefault("AGENT_DSN", "panic_agent.db"),
		ServerBaseURL: util.GetEnvDefault("SERVER_BASE_URL", "http://localhost:8080"),
		PhotoDir:      util.GetEnvDefault("PHOTO_DIR", "photos"),
		AccountID:     util.GetEnv("ACCOUNT_ID"),
		DisplayName:   util.GetEnv("DISPLAY_NAME"),
		Email:         util.GetEnv("EMAIL"),
	}
	return nil
}
