package identity

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"HibiscusAlert/internal/models"
	"HibiscusAlert/pkg/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := util.OpenDatabase("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserProfile{}))
	return db
}

func TestDerive(t *testing.T) {
	hexPattern := regexp.MustCompile(`^[0-9a-f]{64}$`)

	t.Run("deterministic 64 hex", func(t *testing.T) {
		a := Derive("account-123")
		b := Derive("account-123")
		assert.Equal(t, a, b)
		assert.Regexp(t, hexPattern, a)
	})

	t.Run("distinct accounts distinct identities", func(t *testing.T) {
		assert.NotEqual(t, Derive("account-1"), Derive("account-2"))
	})

	t.Run("empty account is anonymous", func(t *testing.T) {
		assert.Equal(t, Anonymous, Derive(""))
	})
}

func TestEnsure(t *testing.T) {
	ctx := context.Background()

	t.Run("creates profile on first login", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		hash := svc.Ensure(ctx, "acct-1", "Pablo", "pablo@example.com")
		assert.Equal(t, Derive("acct-1"), hash)

		var profile models.UserProfile
		require.NoError(t, db.Where("hash = ?", hash).First(&profile).Error)
		assert.Equal(t, "Pablo", profile.DisplayName)
		assert.Equal(t, "pablo@example.com", profile.Email)
	})

	t.Run("merge keeps earlier non-empty fields", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		hash := svc.Ensure(ctx, "acct-2", "Pablo", "pablo@example.com")
		// 第二次登录没有昵称与邮箱，不得清掉已有值
		svc.Ensure(ctx, "acct-2", "", "")

		var profile models.UserProfile
		require.NoError(t, db.Where("hash = ?", hash).First(&profile).Error)
		assert.Equal(t, "Pablo", profile.DisplayName)
		assert.Equal(t, "pablo@example.com", profile.Email)
	})

	t.Run("display name falls back to email local part", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		hash := svc.Ensure(ctx, "acct-3", "", "maria@example.com")

		var profile models.UserProfile
		require.NoError(t, db.Where("hash = ?", hash).First(&profile).Error)
		assert.Equal(t, "maria", profile.DisplayName)
	})

	t.Run("no name at all gets fallback literal", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		hash := svc.Ensure(ctx, "acct-4", "", "")

		var profile models.UserProfile
		require.NoError(t, db.Where("hash = ?", hash).First(&profile).Error)
		assert.Equal(t, FallbackDisplayName, profile.DisplayName)
	})

	t.Run("anonymous never writes a profile", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		hash := svc.Ensure(ctx, "", "Ghost", "ghost@example.com")
		assert.Equal(t, Anonymous, hash)

		var count int64
		db.Model(&models.UserProfile{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("new profile emits user create signal", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewService(db)

		created := make(chan string, 1)
		util.Sig().Connect(models.SigUserCreate, func(sender any, params ...any) {
			if p, ok := sender.(*models.UserProfile); ok {
				created <- p.Hash
			}
		})
		defer util.Sig().Disconnect(models.SigUserCreate)

		hash := svc.Ensure(ctx, "acct-5", "Ana", "")
		select {
		case got := <-created:
			assert.Equal(t, hash, got)
		default:
			t.Fatal("expected user create signal")
		}
	})
}
