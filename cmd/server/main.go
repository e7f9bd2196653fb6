package main

import (
	"log"

	handlers "HibiscusAlert/internal/handler"
	"HibiscusAlert/internal/fanout"
	"HibiscusAlert/internal/followgraph"
	"HibiscusAlert/internal/identity"
	"HibiscusAlert/internal/listeners"
	"HibiscusAlert/internal/models"
	"HibiscusAlert/pkg/backup"
	"HibiscusAlert/pkg/cache"
	"HibiscusAlert/pkg/config"
	"HibiscusAlert/pkg/i18n"
	"HibiscusAlert/pkg/logger"
	"HibiscusAlert/pkg/metrics"
	"HibiscusAlert/pkg/middleware"
	"HibiscusAlert/pkg/notification"
	stores "HibiscusAlert/pkg/storage"
	"HibiscusAlert/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.GlobalConfig

	logger.Init(cfg.Log)
	defer logger.Sync()

	db, err := util.OpenDatabase(cfg.DBDriver, cfg.DSN)
	if err != nil {
		logger.Error("open database failed", zap.Error(err))
		return
	}
	if err := models.Migrate(db); err != nil {
		logger.Error("migrate failed", zap.Error(err))
		return
	}

	c, err := cache.NewCache(cfg.Cache)
	if err != nil {
		logger.Error("init cache failed", zap.Error(err))
		return
	}
	defer c.Close()

	i18nSupport, err := i18n.NewI18nSupport(cfg.DefaultLanguage)
	if err != nil {
		logger.Error("init i18n failed", zap.Error(err))
		return
	}

	push := notification.NewFCM(cfg.Push, nil)
	ident := identity.NewService(db)
	graph := followgraph.NewService(db, c)
	fanoutSvc := fanout.NewService(db, graph, push, i18nSupport, c)
	listeners.InitAlertListeners(fanoutSvc)

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.Middleware())
	r.Use(middleware.LanguageMiddleware(i18nSupport, cfg.DefaultLanguage))

	h := handlers.New(db, ident, graph, c, stores.NewStore())
	h.RegisterRoutes(r, cfg.APIPrefix, cfg.AlertRate)
	r.GET("/health", h.Health)
	r.GET("/metrics", metrics.Handler())

	if cfg.BackupEnabled {
		backup.StartBackupScheduler()
	}

	logger.Info("server listening", zap.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
