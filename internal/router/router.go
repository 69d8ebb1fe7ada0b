package router

import (
	"floresya-image-server/internal/handler"
	"floresya-image-server/internal/middleware"
	"floresya-image-server/internal/service"
	"floresya-image-server/internal/storage"

	"github.com/gin-gonic/gin"
)

type Router struct {
	handler *handler.Handler
	service *service.AppService
	store   storage.ObjectStore
}

func NewRouter(h *handler.Handler, appService *service.AppService, store storage.ObjectStore) *Router {
	return &Router{
		handler: h,
		service: appService,
		store:   store,
	}
}

func (rt *Router) Init(r *gin.Engine) {
	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders())

	r.GET("/healthz", rt.handler.HealthCheck)

	// 本地存储模式下由本服务直接提供媒体文件
	if local, ok := rt.store.(*storage.LocalStore); ok {
		media := r.Group("/media")
		media.Use(middleware.StaticCacheMiddleware(rt.service))
		media.Static("/", local.Root())
	}

	api := r.Group("/api")
	// 应用请求体大小限制中间件
	api.Use(middleware.BodyLimitMiddleware(rt.service))

	registerImageRoutes(api, rt.handler, rt.service)
}
