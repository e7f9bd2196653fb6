package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"HibiscusAlert/internal/store"
)

// ServerClient 设备端到云端服务的 HTTP 客户端，实现 Uploader
type ServerClient struct {
	BaseURL string
	cli     *http.Client
}

func NewServerClient(baseURL string, cli *http.Client) *ServerClient {
	if cli == nil {
		cli = &http.Client{Timeout: 15 * time.Second}
	}
	return &ServerClient{BaseURL: strings.TrimRight(baseURL, "/"), cli: cli}
}

// Login 交换账号信息得到对外身份
func (c *ServerClient) Login(ctx context.Context, accountID, displayName, email string) (string, error) {
	payload := map[string]string{
		"accountId":   accountID,
		"displayName": displayName,
		"email":       email,
	}
	var resp struct {
		Data struct {
			Hash string `json:"hash"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, "/api/users/login", payload, &resp); err != nil {
		return "", err
	}
	return resp.Data.Hash, nil
}

// RegisterToken 幂等注册设备推送 token
func (c *ServerClient) RegisterToken(ctx context.Context, hash, token string) error {
	return c.postJSON(ctx, "/api/users/"+url.PathEscape(hash)+"/tokens",
		map[string]string{"token": token}, nil)
}

// UnregisterToken 注销设备推送 token
func (c *ServerClient) UnregisterToken(ctx context.Context, hash, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.BaseURL+"/api/users/"+url.PathEscape(hash)+"/tokens/"+url.PathEscape(token), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Upload 上传照片与告警镜像。本地行 ID 不上传，云端自行编号。
func (c *ServerClient) Upload(ctx context.Context, userHash string, alert *store.Alert) error {
	photoURL, err := c.uploadPhoto(ctx, alert.PhotoPath)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"userHash":  userHash,
		"timestamp": alert.Timestamp,
		"date":      alert.Date,
		"latitude":  alert.Latitude,
		"longitude": alert.Longitude,
		"location":  alert.Location,
		"photoPath": photoURL,
	}
	return c.postJSON(ctx, "/api/alerts", payload, nil)
}

// uploadPhoto multipart 上传照片，返回对象存储公开地址
func (c *ServerClient) uploadPhoto(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/photos", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *ServerClient) postJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *ServerClient) do(req *http.Request, out interface{}) error {
	resp, err := c.cli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(snippet))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
