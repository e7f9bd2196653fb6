package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"HibiscusAlert/internal/models"
	"HibiscusAlert/pkg/logger"
	"HibiscusAlert/pkg/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Anonymous 未登录用户的固定身份
const Anonymous = "anon_user"

// FallbackDisplayName 无可用昵称时的兜底
const FallbackDisplayName = "Usuario Anónimo"

// Derive 由账号ID导出对外身份：SHA-256 的十六进制摘要。
// 同一账号恒定得到同一身份；空账号返回匿名哨兵值。
func Derive(accountID string) string {
	if accountID == "" {
		return Anonymous
	}
	sum := sha256.Sum256([]byte(accountID))
	return hex.EncodeToString(sum[:])
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Ensure 返回账号的对外身份，并尽力同步用户档案。
// 档案写失败只记日志，不影响身份返回。
func (s *Service) Ensure(ctx context.Context, accountID, displayName, email string) string {
	hash := Derive(accountID)
	if hash == Anonymous {
		return hash
	}

	if err := s.upsertProfile(ctx, hash, displayName, email); err != nil {
		logger.Warn("profile upsert failed", zap.String("hash", hash), zap.Error(err))
	}
	return hash
}

// upsertProfile 合并写档案：只覆盖非空的新字段
func (s *Service) upsertProfile(ctx context.Context, hash, displayName, email string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.UserProfile
		err := tx.Where("hash = ?", hash).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile = models.UserProfile{
				Hash:        hash,
				DisplayName: bestDisplayName(displayName, email),
				Email:       email,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
			util.Sig().Emit(models.SigUserCreate, &profile)
			return nil
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if displayName != "" {
			updates["display_name"] = displayName
		} else if profile.DisplayName == "" {
			updates["display_name"] = bestDisplayName(displayName, email)
		}
		if email != "" {
			updates["email"] = email
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.UserProfile{}).Where("hash = ?", hash).Updates(updates).Error
	})
}

// bestDisplayName 昵称 → 邮箱本地部分 → 兜底文案
func bestDisplayName(displayName, email string) string {
	if displayName != "" {
		return displayName
	}
	if email != "" {
		if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
			return local
		}
		return email
	}
	return FallbackDisplayName
}
