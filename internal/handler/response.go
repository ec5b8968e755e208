package handler

import (
	"errors"
	"net/http"

	"wrongness-portfolio/internal/service"

	"github.com/gin-gonic/gin"
)

// writeError 把 service 错误映射为 HTTP 状态码
func writeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
