package service

import (
	"testing"

	"floresya-image-server/internal/consts"
	"floresya-image-server/internal/model"
)

// 测试内容：验证默认设置幂等写入且不覆盖已有值。
func TestInitializeSettings_Idempotent(t *testing.T) {
	gdb, appService, _ := setupService(t)

	var count int64
	gdb.Model(&model.Setting{}).Count(&count)
	if count != int64(len(DefaultSettings)) {
		t.Fatalf("expected %d settings, got %d", len(DefaultSettings), count)
	}

	overrideSetting(t, gdb, appService, consts.ConfigMaxSlotsPerProduct, "9")
	appService.InitializeSettings()

	if got := appService.GetInt(consts.ConfigMaxSlotsPerProduct); got != 9 {
		t.Fatalf("re-init must not overwrite, got %d", got)
	}

	gdb.Model(&model.Setting{}).Count(&count)
	if count != int64(len(DefaultSettings)) {
		t.Fatalf("re-init created duplicates: %d", count)
	}
}

// 测试内容：验证类型化读取与缓存失效。
func TestAppService_TypedGetters(t *testing.T) {
	gdb, appService, _ := setupService(t)

	if got := appService.GetString(consts.ConfigDedupPolicy); got != "reuse" {
		t.Fatalf("expected reuse, got %q", got)
	}
	if got := appService.GetInt(consts.ConfigJPEGQuality); got != 85 {
		t.Fatalf("expected 85, got %d", got)
	}
	if got := appService.GetFloat64(consts.ConfigRateLimitUploadRPS); got != 1.0 {
		t.Fatalf("expected 1.0, got %v", got)
	}
	if !appService.GetBool(consts.ConfigRateLimitEnabled) {
		t.Fatal("expected rate limit enabled by default")
	}

	// 未清缓存前读到旧值，清缓存后读到新值
	overrideSetting(t, gdb, appService, consts.ConfigJPEGQuality, "70")
	if got := appService.GetInt(consts.ConfigJPEGQuality); got != 70 {
		t.Fatalf("expected 70 after cache clear, got %d", got)
	}
}

// 测试内容：验证变体边长配置损坏时回退到出厂值。
func TestVariantDimensions_FallbackOnCorruptSetting(t *testing.T) {
	gdb, appService, _ := setupService(t)
	overrideSetting(t, gdb, appService, consts.ConfigVariantThumbSize, "not-a-number")

	dims := appService.VariantDimensions()
	if dims[consts.SizeThumb] != 150 {
		t.Fatalf("expected fallback 150, got %d", dims[consts.SizeThumb])
	}
	if dims[consts.SizeLarge] != 1200 {
		t.Fatalf("expected 1200, got %d", dims[consts.SizeLarge])
	}
}
