package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"floresya-image-server/internal/utils"
)

// LocalStore 本地磁盘后端，对象通过 media 静态路由对外提供。
// 所有路径经 SecureJoin 校验，防止越界与符号链接穿透。
type LocalStore struct {
	root      string // 绝对路径
	urlPrefix string
}

func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	// 先检查存储根目录节点本身不是符号链接。
	if err := utils.EnsurePathNotSymlink(rootAbs); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(rootAbs, 0755); err != nil {
		return nil, err
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &LocalStore{root: rootAbs, urlPrefix: urlPrefix}, nil
}

// Root 返回存储根目录绝对路径（用于静态路由挂载）。
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Put(_ context.Context, key string, data []byte, _ string) error {
	dst, err := utils.SecureJoin(s.root, filepath.FromSlash(key))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	// 目录创建后再次检查链路，降低 TOCTOU 风险。
	if err := utils.EnsureNoSymlinkBetween(s.root, dst); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	dst, err := utils.SecureJoin(s.root, filepath.FromSlash(key))
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(key string) string {
	return s.urlPrefix + key
}
