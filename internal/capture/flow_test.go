package capture

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"HibiscusAlert/internal/settings"
	"HibiscusAlert/internal/store"
	"HibiscusAlert/pkg/i18n"
	"HibiscusAlert/pkg/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePerms struct{ err error }

func (f fakePerms) Ensure(ctx context.Context, perms ...Permission) error { return f.err }

type fakeLocator struct {
	loc Location
	err error
}

func (f fakeLocator) Current(ctx context.Context) (Location, error) { return f.loc, f.err }

type fakeSession struct {
	captureErr error
	released   int
}

func (s *fakeSession) Capture(ctx context.Context, path string) error { return s.captureErr }
func (s *fakeSession) Release()                                       { s.released++ }

type fakeCamera struct {
	acquireErr error
	session    *fakeSession
	acquired   int
}

func (c *fakeCamera) Acquire(ctx context.Context) (CameraSession, error) {
	if c.acquireErr != nil {
		return nil, c.acquireErr
	}
	c.acquired++
	return c.session, nil
}

type fakeNotifier struct {
	calls int
	err   error
}

func (n *fakeNotifier) Notify(ctx context.Context, title, body string) error {
	n.calls++
	return n.err
}

type fakeUploader struct {
	calls    int
	userHash string
	alert    *store.Alert
	err      error
}

func (u *fakeUploader) Upload(ctx context.Context, userHash string, alert *store.Alert) error {
	u.calls++
	u.userHash = userHash
	u.alert = alert
	return u.err
}

type flowFixture struct {
	flow     *Flow
	alerts   *store.AlertStore
	prefs    *settings.Store
	camera   *fakeCamera
	session  *fakeSession
	notifier *fakeNotifier
	uploader *fakeUploader
	states   *[]State
}

func newFixture(t *testing.T, mutate func(f *flowFixture) (PermissionChecker, Locator)) *flowFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := util.OpenDatabase("sqlite", dsn)
	require.NoError(t, err)
	alerts, err := store.NewAlertStore(db)
	require.NoError(t, err)
	prefs, err := settings.NewStore(db)
	require.NoError(t, err)
	i18nSupport, err := i18n.NewI18nSupport("es")
	require.NoError(t, err)

	fx := &flowFixture{
		alerts:   alerts,
		prefs:    prefs,
		session:  &fakeSession{},
		notifier: &fakeNotifier{},
		uploader: &fakeUploader{},
		states:   &[]State{},
	}
	fx.camera = &fakeCamera{session: fx.session}

	perms := PermissionChecker(fakePerms{})
	locator := Locator(fakeLocator{loc: Location{Latitude: -34.6, Longitude: -58.38}})
	if mutate != nil {
		if p, l := mutate(fx); p != nil || l != nil {
			if p != nil {
				perms = p
			}
			if l != nil {
				locator = l
			}
		}
	}

	fx.flow = NewFlow(perms, locator, fx.camera, fx.notifier, fx.uploader,
		alerts, prefs, i18nSupport, t.TempDir(),
		WithClock(func() time.Time { return time.UnixMilli(1700000000000) }),
		WithStateHook(func(s State) { *fx.states = append(*fx.states, s) }),
	)
	return fx
}

func (fx *flowFixture) localCount(t *testing.T) int {
	t.Helper()
	all, err := fx.alerts.ListAll(context.Background())
	require.NoError(t, err)
	return len(all)
}

func TestTriggerSuccess(t *testing.T) {
	fx := newFixture(t, nil)
	require.NoError(t, fx.prefs.SetString(settings.NSUserPrefs, settings.KeyUserHash, "hash123"))

	alert, err := fx.flow.Trigger(context.Background())
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.NotZero(t, alert.ID)
	assert.Equal(t, DefaultLocationLabel, alert.Location)
	assert.Equal(t, int64(1700000000000), alert.Timestamp)
	assert.Contains(t, alert.PhotoPath, "alert_1700000000000.jpg")

	assert.Equal(t, 1, fx.localCount(t))
	assert.Equal(t, 1, fx.uploader.calls)
	assert.Equal(t, "hash123", fx.uploader.userHash)
	assert.Equal(t, 1, fx.notifier.calls)
	assert.Equal(t, 1, fx.session.released, "camera released exactly once")

	assert.Equal(t, []State{
		StateAcquiringPermissions,
		StateAcquiringLocation,
		StateCapturingPhoto,
		StatePersisting,
		StateNotifying,
		StateIdle,
	}, *fx.states)
}

func TestTriggerPermissionDenied(t *testing.T) {
	fx := newFixture(t, func(f *flowFixture) (PermissionChecker, Locator) {
		return fakePerms{err: errors.New("camera denied")}, nil
	})

	_, err := fx.flow.Trigger(context.Background())
	require.Error(t, err)

	// 权限被拒：不拍照、不落库、不上传
	assert.Zero(t, fx.camera.acquired)
	assert.Zero(t, fx.localCount(t))
	assert.Zero(t, fx.uploader.calls)
	assert.Zero(t, fx.notifier.calls)
}

func TestTriggerLocationFailure(t *testing.T) {
	fx := newFixture(t, func(f *flowFixture) (PermissionChecker, Locator) {
		return nil, fakeLocator{err: errors.New("no fix")}
	})

	_, err := fx.flow.Trigger(context.Background())
	require.Error(t, err)
	assert.Zero(t, fx.camera.acquired, "camera never touched without a location fix")
	assert.Zero(t, fx.localCount(t))
}

func TestTriggerCaptureFailureReleasesCamera(t *testing.T) {
	fx := newFixture(t, nil)
	fx.session.captureErr = errors.New("sensor fault")

	_, err := fx.flow.Trigger(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, fx.session.released, "camera released on the error path too")
	assert.Zero(t, fx.localCount(t), "no partial alert persisted")
	assert.Zero(t, fx.uploader.calls)
}

func TestTriggerUploadFailureKeepsLocalRow(t *testing.T) {
	fx := newFixture(t, nil)
	fx.uploader.err = errors.New("network down")

	alert, err := fx.flow.Trigger(context.Background())
	require.NoError(t, err, "remote upload is best-effort")
	require.NotNil(t, alert)

	assert.Equal(t, 1, fx.localCount(t), "local record is the source of truth")
	assert.Equal(t, 1, fx.notifier.calls)
}

func TestTriggerAnonymousDefaultIdentity(t *testing.T) {
	fx := newFixture(t, nil)

	_, err := fx.flow.Trigger(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "anon_user", fx.uploader.userHash)
}
