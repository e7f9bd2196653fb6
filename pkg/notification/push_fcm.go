package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultFCMEndpoint       = "https://fcm.googleapis.com/v1/messages:send"
	DefaultFCMLegacyEndpoint = "https://fcm.googleapis.com/fcm/send"
)

// FCMConfig FCM 推送配置
type FCMConfig struct {
	Endpoint       string `env:"FCM_ENDPOINT"`
	LegacyEndpoint string `env:"FCM_LEGACY_ENDPOINT"`
	ServerKey      string `env:"FCM_SERVER_KEY"`
	UseLegacy      bool   `env:"FCM_USE_LEGACY"` // 按 token 逐条走旧版接口
}

// FCM 云消息推送客户端
type FCM struct {
	cfg FCMConfig
	cli *http.Client
}

// NewFCM 创建推送客户端，cli 为空时使用默认超时客户端
func NewFCM(cfg FCMConfig, cli *http.Client) *FCM {
	if cli == nil {
		cli = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultFCMEndpoint
	}
	if cfg.LegacyEndpoint == "" {
		cfg.LegacyEndpoint = DefaultFCMLegacyEndpoint
	}
	return &FCM{cfg: cfg, cli: cli}
}

// notificationBody 推送通知体
type notificationBody struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// multicastPayload 多播推送负载
type multicastPayload struct {
	Notification notificationBody `json:"notification"`
	Tokens       []string         `json:"tokens"`
}

// legacyPayload 旧版单 token 推送负载
type legacyPayload struct {
	To           string           `json:"to"`
	Notification notificationBody `json:"notification"`
}

// UseLegacy 是否按 token 逐条发送
func (f *FCM) UseLegacy() bool {
	return f.cfg.UseLegacy
}

// SendMulticast 一次请求推送到多个 token
func (f *FCM) SendMulticast(ctx context.Context, title, body string, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	payload := multicastPayload{
		Notification: notificationBody{Title: title, Body: body},
		Tokens:       tokens,
	}
	return f.post(ctx, f.cfg.Endpoint, payload)
}

// SendToToken 旧版接口，单 token 推送
func (f *FCM) SendToToken(ctx context.Context, title, body, token string) error {
	payload := legacyPayload{
		To:           token,
		Notification: notificationBody{Title: title, Body: body},
	}
	return f.post(ctx, f.cfg.LegacyEndpoint, payload)
}

func (f *FCM) post(ctx context.Context, url string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if f.cfg.ServerKey != "" {
		req.Header.Set("Authorization", "key="+f.cfg.ServerKey)
	}

	resp, err := f.cli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fcm push rejected: status=%d body=%s", resp.StatusCode, string(snippet))
	}
	return nil
}
