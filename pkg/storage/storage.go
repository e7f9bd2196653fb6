package stores

import "io"

// Store 对象存储抽象，照片落盘走这里
type Store interface {
	Read(key string) (io.ReadCloser, int64, error)
	Write(key string, r io.Reader) error
	Delete(key string) error
	Exists(key string) (bool, error)
	PublicURL(key string) string
}
