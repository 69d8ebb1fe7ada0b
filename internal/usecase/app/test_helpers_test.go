package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"floresya-image-server/internal/common"
	"floresya-image-server/internal/model"
	"floresya-image-server/internal/repository"
	"floresya-image-server/internal/service"
	"floresya-image-server/internal/testutils"

	"gorm.io/gorm"
)

// fakeObjectStore 进程内对象存储，支持按键注入写入失败。
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	// failPuts 剩余写入失败次数，按键匹配 (空串匹配所有键)
	failPuts map[string]int
	puts     int
	deletes  int
	// afterPut 在写入成功后回调，用于在上传与落库之间注入并发变化
	afterPut func(key string)
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects:  map[string][]byte{},
		failPuts: map[string]int{},
	}
}

var errInjectedPut = errors.New("injected put failure")

func (f *fakeObjectStore) Put(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	f.puts++
	for _, match := range []string{key, ""} {
		if n, ok := f.failPuts[match]; ok && n > 0 {
			f.failPuts[match] = n - 1
			f.mu.Unlock()
			return errInjectedPut
		}
	}
	f.objects[key] = append([]byte(nil), data...)
	hook := f.afterPut
	f.mu.Unlock()

	if hook != nil {
		hook(key)
	}
	return nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStore) URL(key string) string {
	return "/media/" + key
}

func (f *fakeObjectStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeObjectStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

type appFixture struct {
	gdb          *gorm.DB
	appService   *service.AppService
	imageService *service.ImageService
	imageStore   repository.ImageStore
	objectStore  *fakeObjectStore
	ingestUC     *IngestUseCase
	slotAdminUC  *SlotAdminUseCase
}

func setupAppFixture(t *testing.T) *appFixture {
	t.Helper()

	gdb := testutils.SetupDB(t)
	imageStore := repository.NewImageRepository(gdb)
	settingStore := repository.NewSettingRepository(gdb)
	repos := repository.NewRepositories(imageStore, settingStore)

	appService := service.NewAppService(repos)
	appService.InitializeSettings()
	appService.ClearCache()
	imageService := service.NewImageService(appService)

	objectStore := newFakeObjectStore()
	locks := NewProductLocks()
	ingestUC := NewIngestUseCase(imageService, appService, imageStore, objectStore, locks)
	slotAdminUC := NewSlotAdminUseCase(appService, imageStore, objectStore, locks)

	return &appFixture{
		gdb:          gdb,
		appService:   appService,
		imageService: imageService,
		imageStore:   imageStore,
		objectStore:  objectStore,
		ingestUC:     ingestUC,
		slotAdminUC:  slotAdminUC,
	}
}

// setSetting 覆盖一个运行时配置并清空缓存。
func setSetting(t *testing.T, f *appFixture, key, value string) {
	t.Helper()
	if err := f.gdb.Model(&model.Setting{}).Where("key = ?", key).
		Update("value", value).Error; err != nil {
		t.Fatalf("update setting %s: %v", key, err)
	}
	f.appService.ClearCache()
}

func mustIngest(t *testing.T, f *appFixture, productID uint, data []byte, markPrimary bool) *model.ImageSlot {
	t.Helper()
	slot, _, err := f.ingestUC.IngestImage(context.Background(),
		productID, UploadPayload{Filename: fmt.Sprintf("p%d.png", productID), Data: data}, markPrimary)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	return slot
}

func assertServiceErrorCode(t *testing.T, err error, code common.ErrorCode) *common.ServiceError {
	t.Helper()
	serviceErr, ok := common.AsServiceError(err)
	if !ok {
		t.Fatalf("expected ServiceError, got: %v", err)
	}
	if serviceErr.Code != code {
		t.Fatalf("expected code=%q, got=%q", code, serviceErr.Code)
	}
	return serviceErr
}
