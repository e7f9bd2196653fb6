package fanout

import (
	"context"
	"time"

	"HibiscusAlert/internal/followgraph"
	"HibiscusAlert/internal/models"
	"HibiscusAlert/pkg/cache"
	"HibiscusAlert/pkg/i18n"
	"HibiscusAlert/pkg/logger"
	"HibiscusAlert/pkg/metrics"
	"HibiscusAlert/pkg/notification"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tokensCacheTTL = 30 * time.Second

// Service 告警扇出：新告警 → 粉丝集合 → token 并集 → 推送。
// 至少一次投递，单条失败只记日志不中断。
type Service struct {
	db    *gorm.DB
	graph *followgraph.Service
	push  *notification.FCM
	i18n  *i18n.I18nSupport
	cache cache.Cache
}

func NewService(db *gorm.DB, graph *followgraph.Service, push *notification.FCM, i18nSupport *i18n.I18nSupport, c cache.Cache) *Service {
	return &Service{db: db, graph: graph, push: push, i18n: i18nSupport, cache: c}
}

// HandleAlertCreated 对一条新建的云端告警执行扇出
func (s *Service) HandleAlertCreated(ctx context.Context, alert *models.RemoteAlert) {
	followers, err := s.graph.ListFollowers(ctx, alert.UserHash)
	if err != nil {
		logger.Warn("fanout: list followers failed",
			zap.String("alert", alert.ID), zap.String("creator", alert.UserHash), zap.Error(err))
		return
	}

	tokens := s.collectTokens(ctx, followers)
	if len(tokens) == 0 {
		metrics.FanoutEmpty.Inc()
		return
	}

	title := s.i18n.TWithDefaultLang("alert_push_title", nil)
	body := s.i18n.TWithDefaultLang("alert_push_body", nil)

	if s.push.UseLegacy() {
		// 旧版接口：逐 token 顺序投递
		for _, token := range tokens {
			if err := s.push.SendToToken(ctx, title, body, token); err != nil {
				metrics.PushFailed.Inc()
				logger.Warn("fanout: push rejected",
					zap.String("alert", alert.ID), zap.String("token", token), zap.Error(err))
				continue
			}
			metrics.PushSent.Inc()
		}
		return
	}

	if err := s.push.SendMulticast(ctx, title, body, tokens); err != nil {
		metrics.PushFailed.Add(float64(len(tokens)))
		logger.Warn("fanout: multicast rejected",
			zap.String("alert", alert.ID), zap.Int("tokens", len(tokens)), zap.Error(err))
		return
	}
	metrics.PushSent.Add(float64(len(tokens)))
}

// collectTokens 收集所有粉丝注册 token 的去重并集（保持首次出现顺序）
func (s *Service) collectTokens(ctx context.Context, followers []string) []string {
	seen := make(map[string]struct{})
	var union []string
	for _, follower := range followers {
		for _, token := range s.followerTokens(ctx, follower) {
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			union = append(union, token)
		}
	}
	return union
}

func (s *Service) followerTokens(ctx context.Context, hash string) []string {
	if s.cache != nil {
		if v, ok := s.cache.Get(ctx, TokensKey(hash)); ok {
			if tokens, ok := v.([]string); ok {
				return tokens
			}
		}
	}

	var tokens []string
	err := s.db.WithContext(ctx).Model(&models.PushToken{}).
		Where("hash = ?", hash).
		Order("created_at").
		Pluck("token", &tokens).Error
	if err != nil {
		logger.Warn("fanout: list tokens failed", zap.String("hash", hash), zap.Error(err))
		return nil
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, TokensKey(hash), tokens, tokensCacheTTL)
	}
	return tokens
}

// TokensKey 某身份 token 集合的缓存键；注册/注销时需失效
func TokensKey(hash string) string { return "tokens:" + hash }
