package handler

import (
	"net/http"

	"wrongness-portfolio/internal/model"
	"wrongness-portfolio/internal/service"

	"github.com/gin-gonic/gin"
)

type MiningHandler struct {
	portfolio *service.Portfolio
}

func NewMiningHandler(portfolio *service.Portfolio) *MiningHandler {
	return &MiningHandler{portfolio: portfolio}
}

func (h *MiningHandler) ListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tasks": h.portfolio.MiningQueue(),
	})
}

func (h *MiningHandler) CreateTask(c *gin.Context) {
	var req service.NewMiningTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.portfolio.CreateMiningTask(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"task": task,
	})
}

// UpdateTask 更新进度/状态
func (h *MiningHandler) UpdateTask(c *gin.Context) {
	var req struct {
		Source   string             `json:"source" binding:"required"`
		Target   string             `json:"target" binding:"required"`
		Priority model.TaskPriority `json:"priority" binding:"required,oneof=high medium low"`
		Deadline string             `json:"deadline"`
		Status   model.MiningStatus `json:"status" binding:"required,oneof=active pending completed"`
		Progress int                `json:"progress" binding:"min=0,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.portfolio.UpdateMiningTask(c.Request.Context(), model.MiningTask{
		ID:       c.Param("id"),
		Source:   req.Source,
		Target:   req.Target,
		Priority: req.Priority,
		Deadline: req.Deadline,
		Status:   req.Status,
		Progress: req.Progress,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"task": task,
	})
}
