package app

import (
	"floresya-image-server/internal/repository"
	"floresya-image-server/internal/service"
	"floresya-image-server/internal/storage"
)

type AppUseCase struct {
	Ingest    *IngestUseCase
	SlotAdmin *SlotAdminUseCase
}

func NewIngestUseCase(imageService *service.ImageService, appService *service.AppService,
	imageStore repository.ImageStore, objectStore storage.ObjectStore, locks *ProductLocks) *IngestUseCase {
	return &IngestUseCase{
		imageService: imageService,
		appService:   appService,
		imageStore:   imageStore,
		objectStore:  objectStore,
		locks:        locks,
	}
}

func NewSlotAdminUseCase(appService *service.AppService, imageStore repository.ImageStore,
	objectStore storage.ObjectStore, locks *ProductLocks) *SlotAdminUseCase {
	return &SlotAdminUseCase{
		appService:  appService,
		imageStore:  imageStore,
		objectStore: objectStore,
		locks:       locks,
	}
}

func NewProductLocks() *ProductLocks {
	return &ProductLocks{}
}

func NewAppUseCase(ingest *IngestUseCase, slotAdmin *SlotAdminUseCase) *AppUseCase {
	return &AppUseCase{Ingest: ingest, SlotAdmin: slotAdmin}
}
