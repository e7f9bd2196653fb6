package capture

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"HibiscusAlert/pkg/logger"

	"go.uber.org/zap"
)

// GrantedPermissions 常驻设备（kiosk）场景：权限在系统层已授予
type GrantedPermissions struct{}

func (GrantedPermissions) Ensure(ctx context.Context, perms ...Permission) error {
	return nil
}

// FixedLocator 固定坐标定位（固定安装点的设备）
type FixedLocator struct {
	Lat float64
	Lng float64
}

func (l FixedLocator) Current(ctx context.Context) (Location, error) {
	if err := ctx.Err(); err != nil {
		return Location{}, err
	}
	return Location{Latitude: l.Lat, Longitude: l.Lng}, nil
}

// ExecCamera 调用外部拍照命令（如 fswebcam）的相机实现。
// 同一时刻只允许一个会话占用。
type ExecCamera struct {
	Command string // 形如 "fswebcam -r 1280x720 {path}"

	mu sync.Mutex
}

func (c *ExecCamera) Acquire(ctx context.Context) (CameraSession, error) {
	if !c.mu.TryLock() {
		return nil, fmt.Errorf("camera is busy")
	}
	return &execSession{camera: c}, nil
}

type execSession struct {
	camera   *ExecCamera
	released bool
}

func (s *execSession) Capture(ctx context.Context, path string) error {
	parts := strings.Fields(s.camera.Command)
	if len(parts) == 0 {
		return fmt.Errorf("camera command not configured")
	}
	args := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		args = append(args, strings.ReplaceAll(p, "{path}", path))
	}

	cmd := exec.CommandContext(ctx, parts[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("capture command failed: %v: %s", err, string(out))
	}
	return nil
}

func (s *execSession) Release() {
	if s.released {
		return
	}
	s.released = true
	s.camera.mu.Unlock()
}

// LogNotifier 没有系统通知中心时退化为日志输出
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, title, body string) error {
	logger.Info("local notification", zap.String("title", title), zap.String("body", body))
	return nil
}
