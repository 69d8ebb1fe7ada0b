package middleware

import (
	"net/http"
	"strings"

	"floresya-image-server/internal/common"
	"floresya-image-server/internal/common/httpx"
	"floresya-image-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// ServiceAuth 写接口的服务间认证，要求携带 "Bearer <token>" 形式的服务令牌。
func ServiceAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httpx.Fail(c, http.StatusUnauthorized, common.ErrorCodeUnauthorized, "需要认证才能访问")
			c.Abort()
			return
		}

		// 检查格式是否为 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httpx.Fail(c, http.StatusUnauthorized, common.ErrorCodeUnauthorized, "Token 格式错误")
			c.Abort()
			return
		}

		claims, err := utils.ParseServiceToken(parts[1])
		if err != nil {
			httpx.Fail(c, http.StatusUnauthorized, common.ErrorCodeUnauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		c.Set("caller", claims.Subject)
		c.Next()
	}
}
