package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"HibiscusAlert/internal/followgraph"
	"HibiscusAlert/internal/identity"
	"HibiscusAlert/internal/models"
	stores "HibiscusAlert/pkg/storage"
	"HibiscusAlert/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T, alertRate string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := util.OpenDatabase("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	h := New(db, identity.NewService(db), followgraph.NewService(db, nil), nil,
		stores.NewFSStore(t.TempDir(), "http://photos.test"))

	r := gin.New()
	h.RegisterRoutes(r, "/api", alertRate)
	r.GET("/health", h.Health)
	return r, db
}

func doJSON(r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginReturnsIdentity(t *testing.T) {
	r, _ := newTestRouter(t, "100-M")

	w := doJSON(r, http.MethodPost, "/api/users/login",
		gin.H{"accountId": "acct-1", "displayName": "Pablo", "email": "pablo@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Hash string `json:"hash"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Hash, 64)
	assert.Equal(t, identity.Derive("acct-1"), resp.Data.Hash)
}

func TestRegisterTokenIdempotent(t *testing.T) {
	r, db := newTestRouter(t, "100-M")

	for i := 0; i < 2; i++ {
		w := doJSON(r, http.MethodPost, "/api/users/hash1/tokens", gin.H{"token": "tok-1"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	var count int64
	db.Model(&models.PushToken{}).Where("hash = ?", "hash1").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUnregisterToken(t *testing.T) {
	r, db := newTestRouter(t, "100-M")

	doJSON(r, http.MethodPost, "/api/users/hash1/tokens", gin.H{"token": "tok-1"})
	w := doJSON(r, http.MethodDelete, "/api/users/hash1/tokens/tok-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.PushToken{}).Count(&count)
	assert.Zero(t, count)
}

func TestFollowRejectsSelf(t *testing.T) {
	r, _ := newTestRouter(t, "100-M")

	w := doJSON(r, http.MethodPost, "/api/follows", gin.H{"from": "same", "to": "same"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollowThenSubscriptions(t *testing.T) {
	r, _ := newTestRouter(t, "100-M")

	w := doJSON(r, http.MethodPost, "/api/follows", gin.H{"from": "a", "to": "b"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/users/a/subscriptions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"b"}, resp.Data)
}

func TestCreateAlertEmitsSignal(t *testing.T) {
	r, db := newTestRouter(t, "100-M")

	created := make(chan *models.RemoteAlert, 1)
	util.Sig().Connect(models.SigAlertCreate, func(sender any, params ...any) {
		if a, ok := sender.(*models.RemoteAlert); ok {
			created <- a
		}
	})
	defer util.Sig().Disconnect(models.SigAlertCreate)

	w := doJSON(r, http.MethodPost, "/api/alerts", gin.H{
		"userHash":  "creator-hash",
		"timestamp": 1700000000000,
		"date":      "14/11/2023 22:13:20",
		"latitude":  -34.6,
		"longitude": -58.38,
		"location":  "Ubicación registrada automáticamente",
		"photoPath": "http://photos.test/x.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	select {
	case alert := <-created:
		assert.Equal(t, "creator-hash", alert.UserHash)
		assert.NotEmpty(t, alert.ID)
	default:
		t.Fatal("expected alert create signal")
	}

	var count int64
	db.Model(&models.RemoteAlert{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateAlertRejectsAnonymous(t *testing.T) {
	r, db := newTestRouter(t, "100-M")

	w := doJSON(r, http.MethodPost, "/api/alerts", gin.H{
		"userHash":  "anon_user",
		"timestamp": 1700000000000,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.RemoteAlert{}).Count(&count)
	assert.Zero(t, count)
}

func TestListAlertsNewestFirst(t *testing.T) {
	r, _ := newTestRouter(t, "100-M")

	for _, ts := range []int64{100, 300, 200} {
		w := doJSON(r, http.MethodPost, "/api/alerts", gin.H{"userHash": "c", "timestamp": ts})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(r, http.MethodGet, "/api/alerts?user=c", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.RemoteAlert `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	assert.EqualValues(t, 300, resp.Data[0].Timestamp)
	assert.EqualValues(t, 200, resp.Data[1].Timestamp)
	assert.EqualValues(t, 100, resp.Data[2].Timestamp)
}

func TestCreateAlertRateLimited(t *testing.T) {
	r, _ := newTestRouter(t, "2-M")

	var last int
	for i := 0; i < 3; i++ {
		w := doJSON(r, http.MethodPost, "/api/alerts", gin.H{"userHash": "c", "timestamp": int64(i + 1)})
		last = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestUploadPhoto(t *testing.T) {
	r, _ := newTestRouter(t, "100-M")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("photo", "alert_1.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/photos", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Key)
	assert.Contains(t, resp.URL, "http://photos.test/")
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, "100-M")
	w := doJSON(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
