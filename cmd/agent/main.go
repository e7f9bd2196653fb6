package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"HibiscusAlert/internal/capture"
	"HibiscusAlert/internal/settings"
	"HibiscusAlert/internal/store"
	"HibiscusAlert/pkg/config"
	"HibiscusAlert/pkg/i18n"
	"HibiscusAlert/pkg/logger"
	"HibiscusAlert/pkg/util"

	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// 设备端入口：trigger（默认）触发一次告警，list 查看历史，
// comment <id> <texto> 编辑备注
func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.GlobalConfig

	logger.Init(cfg.Log)
	defer logger.Sync()

	db, err := util.OpenDatabase("sqlite", cfg.AgentDSN)
	if err != nil {
		log.Fatalf("open local database: %v", err)
	}
	alerts, err := store.NewAlertStore(db)
	if err != nil {
		log.Fatalf("migrate local store: %v", err)
	}
	prefs, err := settings.NewStore(db)
	if err != nil {
		log.Fatalf("init settings: %v", err)
	}

	cmd := "trigger"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	ctx := context.Background()
	switch cmd {
	case "trigger":
		runTrigger(ctx, cfg, alerts, prefs)
	case "list":
		runList(ctx, alerts)
	case "comment":
		runComment(ctx, alerts)
	default:
		fmt.Fprintf(os.Stderr, "usage: agent [trigger|list|comment <id> <texto>]\n")
		os.Exit(2)
	}
}

func runTrigger(ctx context.Context, cfg *config.Config, alerts *store.AlertStore, prefs *settings.Store) {
	client := capture.NewServerClient(cfg.ServerBaseURL, nil)

	// 每次启动：登录换取身份并幂等重注册推送 token
	hash, err := client.Login(ctx, cfg.AccountID, cfg.DisplayName, cfg.Email)
	if err != nil {
		logger.Warn("login failed, keeping cached identity", zap.Error(err))
		hash = prefs.GetString(settings.NSUserPrefs, settings.KeyUserHash, "anon_user")
	} else {
		if err := prefs.SetString(settings.NSUserPrefs, settings.KeyUserHash, hash); err != nil {
			logger.Warn("persist identity failed", zap.Error(err))
		}
		if token := util.GetEnv("DEVICE_PUSH_TOKEN"); token != "" {
			if err := client.RegisterToken(ctx, hash, token); err != nil {
				logger.Warn("push token registration failed", zap.Error(err))
			}
		}
	}

	i18nSupport, err := i18n.NewI18nSupport(cfg.DefaultLanguage)
	if err != nil {
		log.Fatalf("init i18n: %v", err)
	}

	flow := capture.NewFlow(
		capture.GrantedPermissions{},
		capture.FixedLocator{
			Lat: cast.ToFloat64(util.GetEnv("DEVICE_LAT")),
			Lng: cast.ToFloat64(util.GetEnv("DEVICE_LNG")),
		},
		&capture.ExecCamera{Command: util.GetEnvDefault("CAMERA_COMMAND", "fswebcam -r 1280x720 {path}")},
		capture.LogNotifier{},
		client,
		alerts,
		prefs,
		i18nSupport,
		cfg.PhotoDir,
	)

	triggerCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	alert, err := flow.Trigger(triggerCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Alerta #%d guardada (%s)\n", alert.ID, alert.Date)
}

func runList(ctx context.Context, alerts *store.AlertStore) {
	all, err := alerts.ListAll(ctx)
	if err != nil {
		log.Fatalf("list alerts: %v", err)
	}
	for _, a := range all {
		line := fmt.Sprintf("#%d  %s  (%.5f, %.5f)  %s", a.ID, a.Date, a.Latitude, a.Longitude, a.PhotoPath)
		if a.Comment != "" {
			line += "  // " + a.Comment
		}
		fmt.Println(line)
	}
}

func runComment(ctx context.Context, alerts *store.AlertStore) {
	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "usage: agent comment <id> <texto>\n")
		os.Exit(2)
	}
	id, err := strconv.ParseUint(os.Args[2], 10, 32)
	if err != nil {
		log.Fatalf("invalid alert id: %v", err)
	}

	alert, err := alerts.GetByID(ctx, uint(id))
	if err != nil {
		log.Fatalf("alert not found: %v", err)
	}

	alert.Comment = strings.Join(os.Args[3:], " ")
	if err := alerts.Update(ctx, alert); err != nil {
		log.Fatalf("save comment: %v", err)
	}
	fmt.Printf("Comentario guardado en alerta #%d\n", alert.ID)
}
