//go:build wireinject
// +build wireinject

package di

import (
	"floresya-image-server/internal/handler"
	"floresya-image-server/internal/repository"
	"floresya-image-server/internal/router"
	"floresya-image-server/internal/service"
	"floresya-image-server/internal/storage"
	"floresya-image-server/internal/usecase/app"

	"github.com/google/wire"
	"gorm.io/gorm"
)

func InitializeApplication(gormDB *gorm.DB, objectStore storage.ObjectStore) (*Application, error) {
	wire.Build(
		repository.NewImageRepository,
		repository.NewSettingRepository,
		repository.NewRepositories,
		service.NewAppService,
		service.NewImageService,
		app.NewProductLocks,
		app.NewIngestUseCase,
		app.NewSlotAdminUseCase,
		app.NewAppUseCase,
		handler.NewHandler,
		router.NewRouter,
		NewApplication,
	)
	return nil, nil
}
