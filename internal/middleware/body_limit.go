package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"floresya-image-server/internal/common"
	"floresya-image-server/internal/common/httpx"
	"floresya-image-server/internal/consts"
	"floresya-image-server/internal/service"

	"github.com/gin-gonic/gin"
)

// BodyLimitMiddleware 限制请求体大小
func BodyLimitMiddleware(appService *service.AppService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 跳过图片上传路由，上传接口有独立限制
		if strings.HasSuffix(c.Request.URL.Path, "/images") && c.Request.Method == http.MethodPost {
			c.Next()
			return
		}

		maxSizeMB := appService.GetInt(consts.ConfigMaxRequestBodySize)
		if maxSizeMB <= 0 {
			// 如果未设置或为0，默认 2MB
			maxSizeMB = 2
		}

		// 限制大小 (MB -> Bytes)
		maxBytes := int64(maxSizeMB) * 1024 * 1024

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

		c.Next()
	}
}

// UploadBodyLimitMiddleware 限制图片上传接口的请求体大小。
// 以单张图片上限乘以单次最多文件数作为 multipart 整体上限。
func UploadBodyLimitMiddleware(appService *service.AppService) gin.HandlerFunc {
	return func(c *gin.Context) {
		maxSizeMB := appService.GetInt(consts.ConfigMaxUploadSize)
		if maxSizeMB <= 0 {
			maxSizeMB = 5
		}
		maxFiles := appService.GetInt(consts.ConfigMaxSlotsPerProduct)
		if maxFiles <= 0 {
			maxFiles = 5
		}
		maxBytes := int64(maxSizeMB) * 1024 * 1024 * int64(maxFiles)

		if c.Request.ContentLength > maxBytes && c.Request.ContentLength != -1 {
			httpx.Fail(c, http.StatusRequestEntityTooLarge, common.ErrorCodeValidation,
				fmt.Sprintf("请求体不能超过 %dMB", maxBytes/(1024*1024)))
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
