package config

import (
	"os"
	"testing"
)

// 测试内容：验证初始化配置会设置默认值并写入可用的配置目录。
func TestInitConfig_SetsDefaults(t *testing.T) {
	dir := t.TempDir()

	// 确保不在 release 模式（release 模式下不安全的 secret 可能导致 fatal）。
	t.Setenv("FLORESYA_SERVER_MODE", "debug")
	t.Setenv("FLORESYA_JWT_SECRET", "")

	InitConfig(dir)

	cfg := Get()
	if cfg.Server.Port == "" {
		t.Fatalf("期望 default server.port to be set")
	}
	if cfg.JWT.Secret == "" {
		t.Fatalf("期望 JWT secret to be set in non-release mode")
	}
	if cfg.Storage.Type != "local" {
		t.Fatalf("期望 default storage.type local，实际为 %q", cfg.Storage.Type)
	}
	if cfg.Storage.MediaURLPrefix == "" {
		t.Fatalf("期望 default media url prefix to be set")
	}
	if GetConfigDir() != dir {
		t.Fatalf("期望 config dir %q，实际为 %q", dir, GetConfigDir())
	}

	// 写入一个配置文件名以确保目录可写（测试的基本健全性检查）。
	if err := os.WriteFile(dir+string(os.PathSeparator)+"_test_write", []byte("ok"), 0644); err != nil {
		t.Fatalf("期望 temp config dir to be writable: %v", err)
	}
}

// 测试内容：环境变量应能覆盖默认配置。
func TestInitConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("FLORESYA_SERVER_MODE", "debug")
	t.Setenv("FLORESYA_SERVER_PORT", "9090")
	t.Setenv("FLORESYA_STORAGE_TYPE", "gcs")
	t.Setenv("FLORESYA_STORAGE_GCS_BUCKET", "floresya-media")

	InitConfig(dir)

	cfg := Get()
	if cfg.Server.Port != "9090" {
		t.Fatalf("期望 server.port 9090，实际为 %q", cfg.Server.Port)
	}
	if cfg.Storage.Type != "gcs" || cfg.Storage.GCSBucket != "floresya-media" {
		t.Fatalf("期望 gcs 存储配置生效，实际为 %+v", cfg.Storage)
	}
}
