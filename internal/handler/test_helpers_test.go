package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"floresya-image-server/internal/config"
	"floresya-image-server/internal/repository"
	"floresya-image-server/internal/service"
	"floresya-image-server/internal/storage"
	"floresya-image-server/internal/testutils"
	"floresya-image-server/internal/usecase/app"

	"github.com/gin-gonic/gin"
)

// handler 测试直接挂载路由，不经过认证中间件（认证在 middleware/router 层覆盖）。
func setupHandlerRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.InitConfig("")

	gdb := testutils.SetupDB(t)
	imageStore := repository.NewImageRepository(gdb)
	settingStore := repository.NewSettingRepository(gdb)
	appService := service.NewAppService(repository.NewRepositories(imageStore, settingStore))
	appService.InitializeSettings()
	appService.ClearCache()

	store, err := storage.NewLocalStore(t.TempDir(), "/media/")
	if err != nil {
		t.Fatalf("local store: %v", err)
	}

	locks := app.NewProductLocks()
	imageService := service.NewImageService(appService)
	ingestUC := app.NewIngestUseCase(imageService, appService, imageStore, store, locks)
	slotAdminUC := app.NewSlotAdminUseCase(appService, imageStore, store, locks)
	h := NewHandler(app.NewAppUseCase(ingestUC, slotAdminUC), appService)

	r := gin.New()
	api := r.Group("/api/products/:id/images")
	api.POST("", h.UploadImages)
	api.GET("", h.ListImages)
	api.GET("/primary", h.GetPrimaryImage)
	api.PUT("/order", h.ReorderImages)
	api.PUT("/:index/primary", h.SetPrimaryImage)
	api.DELETE("/:index", h.DeleteImage)
	return r
}

// multipartBody 构造含若干图片文件的 multipart 请求体。
func multipartBody(t *testing.T, field string, files map[string][]byte, extraFields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := writer.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part failed: %v", err)
		}
	}
	for k, v := range extraFields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func doUpload(t *testing.T, r *gin.Engine, path string, files map[string][]byte, extra map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, "images", files, extra)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// envelope 解析统一响应信封。
type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("解析响应失败: %v (body=%s)", err, w.Body.String())
	}
	return env
}
