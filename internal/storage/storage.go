package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore 上传文件存储协作方：收一段内容，返回一个稳定可访问的URL/路径。
// 真正的对象存储后端不在本服务范围内，这里只定义接口并内置一个本地磁盘实现
type BlobStore interface {
	// Save 保存内容，返回对外可访问的URL。mime 不合法或写入失败返回错误
	Save(filename string, contents io.Reader) (string, error)
}

// allowedImageExts 允许的图片扩展名
var allowedImageExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
}

// LocalStore 本地磁盘实现：文件落到 dir 下，URL 前缀为 publicURL
type LocalStore struct {
	dir       string
	publicURL string
}

// NewLocalStore 创建 LocalStore，目录不存在则建出来
func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建存储目录失败: %w", err)
	}
	return &LocalStore{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Save 以随机文件名保存（保留原扩展名），避免重名覆盖
func (s *LocalStore) Save(filename string, contents io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedImageExts[ext]; !ok {
		return "", fmt.Errorf("不支持的图片格式: %s", ext)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("创建文件失败: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, contents); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	return s.publicURL + "/" + name, nil
}
