package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"HibiscusAlert/internal/identity"
	"HibiscusAlert/internal/settings"
	"HibiscusAlert/internal/store"
	"HibiscusAlert/pkg/errors"
	"HibiscusAlert/pkg/i18n"
	"HibiscusAlert/pkg/logger"

	"go.uber.org/zap"
)

// Uploader 把本地告警镜像上传到云端（含照片），尽力而为
type Uploader interface {
	Upload(ctx context.Context, userHash string, alert *store.Alert) error
}

// DefaultLocationLabel 自动定位的固定位置标签
const DefaultLocationLabel = "Ubicación registrada automáticamente"

const dateLayout = "02/01/2006 15:04:05"

// State 触发流程所处阶段
type State int

const (
	StateIdle State = iota
	StateAcquiringPermissions
	StateAcquiringLocation
	StateCapturingPhoto
	StatePersisting
	StateNotifying
)

func (s State) String() string {
	switch s {
	case StateAcquiringPermissions:
		return "acquiring_permissions"
	case StateAcquiringLocation:
		return "acquiring_location"
	case StateCapturingPhoto:
		return "capturing_photo"
	case StatePersisting:
		return "persisting"
	case StateNotifying:
		return "notifying"
	default:
		return "idle"
	}
}

// Flow 一次触发的端到端流程：权限 → 定位 → 拍照 → 本地落库 → 上传 → 通知。
// 落库前任何失败都不留下任何持久状态；上传失败不回滚本地记录。
type Flow struct {
	perms    PermissionChecker
	locator  Locator
	camera   Camera
	notifier Notifier
	uploader Uploader
	alerts   *store.AlertStore
	prefs    *settings.Store
	i18n     *i18n.I18nSupport
	photoDir string

	now     func() time.Time
	onState func(State)
}

type Option func(*Flow)

// WithClock 注入时钟（测试用）
func WithClock(now func() time.Time) Option {
	return func(f *Flow) { f.now = now }
}

// WithStateHook 注入状态回调（测试用）
func WithStateHook(hook func(State)) Option {
	return func(f *Flow) { f.onState = hook }
}

func NewFlow(perms PermissionChecker, locator Locator, camera Camera, notifier Notifier,
	uploader Uploader, alerts *store.AlertStore, prefs *settings.Store,
	i18nSupport *i18n.I18nSupport, photoDir string, opts ...Option) *Flow {

	f := &Flow{
		perms:    perms,
		locator:  locator,
		camera:   camera,
		notifier: notifier,
		uploader: uploader,
		alerts:   alerts,
		prefs:    prefs,
		i18n:     i18nSupport,
		photoDir: photoDir,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Trigger 执行一次完整触发。
// 返回已落库的本地告警；落库前出错则无任何副作用。
func (f *Flow) Trigger(ctx context.Context) (*store.Alert, error) {
	defer f.setState(StateIdle)

	// 流程被放弃时取消仍在等待的定位
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	f.setState(StateAcquiringPermissions)
	if err := f.perms.Ensure(ctx, PermCamera, PermLocation, PermNotifications); err != nil {
		return nil, errors.Wrap(err, "permisos de cámara y ubicación son necesarios")
	}

	f.setState(StateAcquiringLocation)
	loc, err := f.locator.Current(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "no se pudo obtener la ubicación")
	}

	f.setState(StateCapturingPhoto)
	ts := f.now()
	photoPath, err := f.capturePhoto(ctx, ts)
	if err != nil {
		return nil, errors.Wrap(err, "no se pudo capturar la foto")
	}

	f.setState(StatePersisting)
	alert := &store.Alert{
		Timestamp: ts.UnixMilli(),
		Date:      ts.Format(dateLayout),
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Location:  DefaultLocationLabel,
		PhotoPath: photoPath,
	}
	if _, err := f.alerts.Insert(ctx, alert); err != nil {
		return nil, errors.Wrap(err, "no se pudo guardar la alerta")
	}

	// 本地记录是事实来源；云端镜像尽力而为，失败不回滚
	userHash := f.prefs.GetString(settings.NSUserPrefs, settings.KeyUserHash, identity.Anonymous)
	if err := f.uploader.Upload(ctx, userHash, alert); err != nil {
		logger.Warn("remote alert upload failed", zap.Uint("alert", alert.ID), zap.Error(err))
	}

	f.setState(StateNotifying)
	lang := f.prefs.LanguageCode()
	title := f.i18n.T(lang, "alert_push_title", nil)
	body := f.i18n.T(lang, "alert_saved", nil)
	if err := f.notifier.Notify(ctx, title, body); err != nil {
		logger.Warn("local notification failed", zap.Error(err))
	}

	return alert, nil
}

// capturePhoto 占用相机拍一张照片；无论成败都立刻释放会话
func (f *Flow) capturePhoto(ctx context.Context, ts time.Time) (string, error) {
	if err := os.MkdirAll(f.photoDir, os.ModePerm); err != nil {
		return "", err
	}

	session, err := f.camera.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer session.Release()

	path := filepath.Join(f.photoDir, fmt.Sprintf("alert_%d.jpg", ts.UnixMilli()))
	if err := session.Capture(ctx, path); err != nil {
		return "", err
	}
	return path, nil
}

func (f *Flow) setState(s State) {
	if f.onState != nil {
		f.onState(s)
	}
}
