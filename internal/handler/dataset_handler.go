package handler

import (
	"net/http"

	"wrongness-portfolio/internal/model"
	"wrongness-portfolio/internal/service"

	"github.com/gin-gonic/gin"
)

type DatasetHandler struct {
	portfolio *service.Portfolio
}

func NewDatasetHandler(portfolio *service.Portfolio) *DatasetHandler {
	return &DatasetHandler{portfolio: portfolio}
}

type datasetView struct {
	model.Dataset
	Score int    `json:"score"`
	ROI   string `json:"roi"`
}

func toDatasetView(d model.Dataset) datasetView {
	return datasetView{Dataset: d, Score: service.DatasetScore(d), ROI: service.DatasetROI(d)}
}

// ListDatasets 按优先级得分降序
func (h *DatasetHandler) ListDatasets(c *gin.Context) {
	sorted := service.SortDatasetsByScore(h.portfolio.Datasets())
	views := make([]datasetView, 0, len(sorted))
	for _, d := range sorted {
		views = append(views, toDatasetView(d))
	}
	c.JSON(http.StatusOK, gin.H{
		"datasets": views,
	})
}

// CreateDataset 新建数据集
func (h *DatasetHandler) CreateDataset(c *gin.Context) {
	var req service.NewDatasetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dataset, err := h.portfolio.CreateDataset(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"dataset": toDatasetView(dataset),
	})
}

type updateDatasetRequest struct {
	Name               string              `json:"name" binding:"required"`
	Type               string              `json:"type" binding:"required"`
	URL                string              `json:"url"`
	Relevance          int                 `json:"relevance" binding:"required,min=1,max=5"`
	SignalDensity      int                 `json:"signalDensity" binding:"required,min=1,max=5"`
	Transferability    int                 `json:"transferability" binding:"required,min=1,max=5"`
	Status             model.DatasetStatus `json:"status" binding:"required,oneof=planned in-progress completed"`
	TimeInvested       float64             `json:"timeInvested" binding:"min=0"`
	ProtocolsExtracted int                 `json:"protocolsExtracted" binding:"min=0"`
	ProtocolsValidated int                 `json:"protocolsValidated" binding:"min=0,ltefield=ProtocolsExtracted"`
}

// UpdateDataset 整条替换
func (h *DatasetHandler) UpdateDataset(c *gin.Context) {
	var req updateDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dataset, err := h.portfolio.UpdateDataset(c.Request.Context(), model.Dataset{
		ID:                 c.Param("id"),
		Name:               req.Name,
		Type:               req.Type,
		URL:                req.URL,
		Relevance:          req.Relevance,
		SignalDensity:      req.SignalDensity,
		Transferability:    req.Transferability,
		Status:             req.Status,
		TimeInvested:       req.TimeInvested,
		ProtocolsExtracted: req.ProtocolsExtracted,
		ProtocolsValidated: req.ProtocolsValidated,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dataset": toDatasetView(dataset),
	})
}
