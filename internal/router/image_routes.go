package router

import (
	"floresya-image-server/internal/consts"
	"floresya-image-server/internal/handler"
	"floresya-image-server/internal/middleware"
	"floresya-image-server/internal/service"

	"github.com/gin-gonic/gin"
)

func registerImageRoutes(api *gin.RouterGroup, h *handler.Handler, appService *service.AppService) {
	images := api.Group("/products/:id/images")

	// 读接口公开，供商品页直接取图
	images.GET("", h.ListImages)
	images.GET("/primary", h.GetPrimaryImage)

	// 写接口要求服务令牌
	write := images.Group("")
	write.Use(middleware.ServiceAuth())

	// 上传限流：读取配置
	uploadLimiter := middleware.RateLimitMiddleware(appService, "upload",
		consts.ConfigRateLimitUploadRPS, consts.ConfigRateLimitUploadBurst)
	uploadBodyLimit := middleware.UploadBodyLimitMiddleware(appService)

	write.POST("", uploadBodyLimit, uploadLimiter, h.UploadImages)
	write.PUT("/order", h.ReorderImages)
	write.PUT("/:index/primary", h.SetPrimaryImage)
	write.DELETE("/:index", h.DeleteImage)
}
