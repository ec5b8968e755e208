package handler

import (
	"net/http"

	"wrongness-portfolio/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProtocolHandler struct {
	portfolio *service.Portfolio
	log       *zap.Logger
}

func NewProtocolHandler(portfolio *service.Portfolio, log *zap.Logger) *ProtocolHandler {
	return &ProtocolHandler{portfolio: portfolio, log: log}
}

// ListProtocols 列出所有 protocol
func (h *ProtocolHandler) ListProtocols(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"protocols": h.portfolio.Protocols(),
	})
}

// CreateProtocol 从某个 artifact 提炼 protocol
func (h *ProtocolHandler) CreateProtocol(c *gin.Context) {
	var req struct {
		service.NewProtocolInput
		ArtifactSource string `json:"artifactSource" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	protocol, err := h.portfolio.CreateProtocol(c.Request.Context(), req.NewProtocolInput, req.ArtifactSource)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"protocol": protocol,
	})
}

// LogUsage 记录一次使用并返回更新后的指标
func (h *ProtocolHandler) LogUsage(c *gin.Context) {
	var req struct {
		// 用指针区分“未传”和 false
		WasSuccess *bool `json:"wasSuccess" binding:"required"`
		TimeSaved  int   `json:"timeSaved" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	protocol, err := h.portfolio.LogUsage(c.Request.Context(), service.UsageInput{
		ProtocolID: c.Param("id"),
		WasSuccess: *req.WasSuccess,
		TimeSaved:  req.TimeSaved,
	})
	if err != nil {
		h.log.Warn("记录使用失败", zap.String("id", c.Param("id")), zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"protocol": protocol,
	})
}

// GetUsageHistory 使用日志、精确指标和累计成功率曲线
func (h *ProtocolHandler) GetUsageHistory(c *gin.Context) {
	history, err := h.portfolio.UsageHistory(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
