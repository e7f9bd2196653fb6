package capture

import "context"

// Permission 设备权限
type Permission string

const (
	PermCamera        Permission = "camera"
	PermLocation      Permission = "location"
	PermNotifications Permission = "notifications"
)

// PermissionChecker 校验（必要时申请）权限；任一被拒即返回错误
type PermissionChecker interface {
	Ensure(ctx context.Context, perms ...Permission) error
}

// Location 一次定位结果
type Location struct {
	Latitude  float64
	Longitude float64
}

// Locator 一次性高精度定位；ctx 取消即中止等待
type Locator interface {
	Current(ctx context.Context) (Location, error)
}

// CameraSession 已占用的相机会话。
// Release 在每条退出路径上都必须调用且恰好一次，否则相机锁泄漏。
type CameraSession interface {
	// Capture 拍摄一张照片写入 path
	Capture(ctx context.Context, path string) error
	Release()
}

// Camera 相机资源句柄：显式获取、显式释放
type Camera interface {
	Acquire(ctx context.Context) (CameraSession, error)
}

// Notifier 本地成功通知（系统通知中心）
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}
