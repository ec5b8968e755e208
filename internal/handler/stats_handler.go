package handler

import (
	"net/http"
	"strconv"

	"wrongness-portfolio/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultTopProtocols = 3

type StatsHandler struct {
	portfolio *service.Portfolio
}

func NewStatsHandler(portfolio *service.Portfolio) *StatsHandler {
	return &StatsHandler{portfolio: portfolio}
}

// GetStats 汇总统计 + 成功率最高的 protocols
func (h *StatsHandler) GetStats(c *gin.Context) {
	top := defaultTopProtocols
	if v := c.Query("top"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			top = n
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":        h.portfolio.Stats(),
		"topProtocols": service.TopProtocols(h.portfolio.Protocols(), top),
	})
}

// GetReport markdown 报告
func (h *StatsHandler) GetReport(c *gin.Context) {
	md := service.RenderPortfolioMarkdown(h.portfolio.Snapshot())
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}
