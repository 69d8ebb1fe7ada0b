package service

import (
	"testing"

	"floresya-image-server/internal/model"
	"floresya-image-server/internal/repository"
	"floresya-image-server/internal/testutils"

	"gorm.io/gorm"
)

func setupService(t *testing.T) (*gorm.DB, *AppService, *ImageService) {
	t.Helper()
	gdb := testutils.SetupDB(t)
	repos := repository.NewRepositories(
		repository.NewImageRepository(gdb),
		repository.NewSettingRepository(gdb),
	)
	appService := NewAppService(repos)
	appService.InitializeSettings()
	appService.ClearCache()
	return gdb, appService, NewImageService(appService)
}

func overrideSetting(t *testing.T, gdb *gorm.DB, appService *AppService, key, value string) {
	t.Helper()
	if err := gdb.Model(&model.Setting{}).Where("key = ?", key).
		Update("value", value).Error; err != nil {
		t.Fatalf("update setting %s: %v", key, err)
	}
	appService.ClearCache()
}
