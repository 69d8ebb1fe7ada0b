package httpx

import (
	"net/http"

	"floresya-image-server/internal/common"

	"github.com/gin-gonic/gin"
)

// 统一响应信封: {success, data|error, message}

func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func Fail(c *gin.Context, status int, errCode common.ErrorCode, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   errCode,
		"message": message,
	})
}

// WriteServiceError writes a standardized HTTP error response for service-layer errors.
func WriteServiceError(c *gin.Context, err error, fallbackMessage string) {
	if serviceErr, ok := common.AsServiceError(err); ok {
		Fail(c, serviceErrorStatus(serviceErr.Code), serviceErr.Code, serviceErr.Message)
		return
	}
	Fail(c, http.StatusInternalServerError, common.ErrorCodeInternal, fallbackMessage)
}

func serviceErrorStatus(code common.ErrorCode) int {
	switch code {
	case common.ErrorCodeValidation:
		return http.StatusBadRequest
	case common.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case common.ErrorCodeDuplicate:
		return http.StatusConflict
	case common.ErrorCodeConsistency:
		return http.StatusConflict
	case common.ErrorCodeNotFound:
		return http.StatusNotFound
	case common.ErrorCodeStorage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
