package handler

import (
	"net/http"

	"floresya-image-server/internal/db"

	"github.com/gin-gonic/gin"
)

// HealthCheck 存活探针，附带数据库连通性。
func (h *Handler) HealthCheck(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	if sqlDB, err := db.DB.DB(); err != nil || sqlDB.Ping() != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{"status": status})
}
