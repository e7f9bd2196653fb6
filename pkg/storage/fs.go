package stores

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"HibiscusAlert/pkg/util"
)

// FSStore 本地目录存储，未配置 MinIO 时的回退实现
type FSStore struct {
	Root    string
	BaseURL string
}

func NewFSStore(root, baseURL string) Store {
	return &FSStore{Root: root, BaseURL: baseURL}
}

// NewStore 按环境选择对象存储实现
func NewStore() Store {
	if util.GetEnv("MINIO_ENDPOINT") != "" {
		return NewMinioStore()
	}
	return NewFSStore(util.GetEnvDefault("PHOTO_STORE_DIR", "uploads"), util.GetEnv("PHOTO_STORE_BASE"))
}

func (f *FSStore) path(key string) string {
	return filepath.Join(f.Root, filepath.Clean("/"+key))
}

func (f *FSStore) Read(key string) (io.ReadCloser, int64, error) {
	file, err := os.Open(f.path(key))
	if err != nil {
		return nil, 0, err
	}
	st, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, err
	}
	return file, st.Size(), nil
}

func (f *FSStore) Write(key string, r io.Reader) error {
	p := f.path(key)
	if err := os.MkdirAll(filepath.Dir(p), os.ModePerm); err != nil {
		return err
	}
	out, err := os.Create(p)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, r)
	return err
}

func (f *FSStore) Delete(key string) error {
	return os.Remove(f.path(key))
}

func (f *FSStore) Exists(key string) (bool, error) {
	_, err := os.Stat(f.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func (f *FSStore) PublicURL(key string) string {
	if f.BaseURL != "" {
		return strings.TrimRight(f.BaseURL, "/") + "/" + key
	}
	return f.path(key)
}
