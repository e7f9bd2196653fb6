package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"HibiscusAlert/pkg/config"
	"HibiscusAlert/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartBackupScheduler 启动备份调度器
func StartBackupScheduler() {
	c := cron.New()

	schedule := config.GlobalConfig.BackupSchedule
	_, err := c.AddFunc(schedule, func() {
		if err := ExecuteBackup(); err != nil {
			logger.Warn("backup failed", zap.Error(err))
		} else {
			logger.Info("backup completed")
		}
	})
	if err != nil {
		logger.Warn("invalid backup schedule", zap.String("schedule", schedule), zap.Error(err))
		return
	}

	c.Start()
}

// ExecuteBackup 根据配置执行数据库备份
func ExecuteBackup() error {
	switch config.GlobalConfig.DBDriver {
	case "", "sqlite":
		dst := filepath.Join(config.GlobalConfig.BackupPath,
			fmt.Sprintf("alerts_backup_%s.db", time.Now().Format("20060102_150405")))
		return BackupSQLiteDatabase(config.GlobalConfig.DSN, dst)
	default:
		return fmt.Errorf("backup not supported for DB_DRIVER: %s", config.GlobalConfig.DBDriver)
	}
}

// BackupSQLiteDatabase 复制 SQLite 数据库文件
func BackupSQLiteDatabase(src string, dst string) error {
	if src == "" {
		return fmt.Errorf("empty sqlite DSN, nothing to back up")
	}

	backupDir := filepath.Dir(dst)
	if _, err := os.Stat(backupDir); os.IsNotExist(err) {
		if err := os.MkdirAll(backupDir, os.ModePerm); err != nil {
			return err
		}
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
