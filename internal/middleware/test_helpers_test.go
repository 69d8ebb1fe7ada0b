package middleware

import (
	"testing"

	"floresya-image-server/internal/model"
	"floresya-image-server/internal/repository"
	"floresya-image-server/internal/service"
	"floresya-image-server/internal/testutils"

	"gorm.io/gorm"
)

var testService *service.AppService

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb := testutils.SetupDB(t)
	imageStore := repository.NewImageRepository(gdb)
	settingStore := repository.NewSettingRepository(gdb)
	testService = service.NewAppService(repository.NewRepositories(imageStore, settingStore))
	testService.ClearCache()
	return gdb
}

func saveSetting(t *testing.T, gdb *gorm.DB, key, value string) {
	t.Helper()
	if err := gdb.Save(&model.Setting{Key: key, Value: value}).Error; err != nil {
		t.Fatalf("设置配置项失败: %v", err)
	}
	testService.ClearCache()
}
