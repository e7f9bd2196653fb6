package followgraph

import (
	"context"
	"time"

	"HibiscusAlert/internal/models"
	"HibiscusAlert/pkg/cache"
	"HibiscusAlert/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const subsCacheTTL = 30 * time.Second

// Service 关注关系：粉丝边与订阅边成对维护
type Service struct {
	db    *gorm.DB
	cache cache.Cache
}

func NewService(db *gorm.DB, c cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

// Follow 建立 a 关注 b 的双向镜像边，事务内成对写入。
// 返回错误时两条边都不会存在（重复关注幂等成功）。
func (s *Service) Follow(ctx context.Context, a, b string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		follower := models.FollowerEdge{OwnerHash: b, Hash: a}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&follower).Error; err != nil {
			return err
		}
		subscription := models.SubscriptionEdge{OwnerHash: a, Hash: b}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&subscription).Error
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, a)
	return nil
}

// Unfollow 删除双向镜像边，事务内成对删除
func (s *Service) Unfollow(ctx context.Context, a, b string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_hash = ? AND hash = ?", b, a).
			Delete(&models.FollowerEdge{}).Error; err != nil {
			return err
		}
		return tx.Where("owner_hash = ? AND hash = ?", a, b).
			Delete(&models.SubscriptionEdge{}).Error
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx, a)
	return nil
}

// ListSubscriptions a 关注的身份列表；读失败降级为空列表
func (s *Service) ListSubscriptions(ctx context.Context, a string) []string {
	if s.cache != nil {
		if v, ok := s.cache.Get(ctx, subsKey(a)); ok {
			if subs, ok := v.([]string); ok {
				return subs
			}
		}
	}

	var subs []string
	err := s.db.WithContext(ctx).Model(&models.SubscriptionEdge{}).
		Where("owner_hash = ?", a).
		Order("created_at").
		Pluck("hash", &subs).Error
	if err != nil {
		logger.Warn("list subscriptions failed", zap.String("hash", a), zap.Error(err))
		return []string{}
	}
	if subs == nil {
		subs = []string{}
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, subsKey(a), subs, subsCacheTTL)
	}
	return subs
}

// ListFollowers 关注 a 的身份列表，供扇出使用
func (s *Service) ListFollowers(ctx context.Context, a string) ([]string, error) {
	var followers []string
	err := s.db.WithContext(ctx).Model(&models.FollowerEdge{}).
		Where("owner_hash = ?", a).
		Order("created_at").
		Pluck("hash", &followers).Error
	if err != nil {
		return nil, err
	}
	return followers, nil
}

func (s *Service) invalidate(ctx context.Context, a string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, subsKey(a))
}

func subsKey(hash string) string { return "subs:" + hash }
