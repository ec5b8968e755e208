package handler

import (
	"net/http"

	"wrongness-portfolio/internal/service"

	"github.com/gin-gonic/gin"
)

type ArtifactHandler struct {
	portfolio *service.Portfolio
}

func NewArtifactHandler(portfolio *service.Portfolio) *ArtifactHandler {
	return &ArtifactHandler{portfolio: portfolio}
}

type listArtifactsQuery struct {
	Q      string `form:"q"`
	Status string `form:"status" binding:"omitempty,oneof=all evergreen active archived"`
}

// ListArtifacts 列出 artifact（计数由 protocols 推导），支持 ?q= 搜索和 ?status= 过滤
func (h *ArtifactHandler) ListArtifacts(c *gin.Context) {
	var query listArtifactsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	artifacts := service.FilterArtifacts(h.portfolio.Artifacts(), query.Q, query.Status)
	c.JSON(http.StatusOK, gin.H{
		"artifacts": artifacts,
		"total":     len(artifacts),
	})
}

// GetArtifact 详情 + 关联 protocols
func (h *ArtifactHandler) GetArtifact(c *gin.Context) {
	artifact, related, err := h.portfolio.Artifact(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"artifact":  artifact,
		"protocols": related,
	})
}

// CreateArtifact 新建 artifact
func (h *ArtifactHandler) CreateArtifact(c *gin.Context) {
	var req service.NewArtifactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	artifact, err := h.portfolio.CreateArtifact(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"artifact": artifact,
	})
}

// UpdateArtifact 整条替换可编辑字段；ID 和创建日期以已有记录为准
func (h *ArtifactHandler) UpdateArtifact(c *gin.Context) {
	var req service.ArtifactRevision
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	artifact, err := h.portfolio.ReviseArtifact(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"artifact": artifact,
	})
}

// DeleteArtifact 删除 artifact
func (h *ArtifactHandler) DeleteArtifact(c *gin.Context) {
	if err := h.portfolio.DeleteArtifact(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "删除成功",
	})
}
