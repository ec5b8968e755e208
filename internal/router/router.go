package router

import (
	"net/http"

	"wrongness-portfolio/internal/handler"
	"wrongness-portfolio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(svcCtx *service.ServiceContext) *gin.Engine {
	r := gin.Default()

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 初始化handlers
	artifactHandler := handler.NewArtifactHandler(svcCtx.Portfolio)
	datasetHandler := handler.NewDatasetHandler(svcCtx.Portfolio)
	protocolHandler := handler.NewProtocolHandler(svcCtx.Portfolio, svcCtx.Log)
	miningHandler := handler.NewMiningHandler(svcCtx.Portfolio)
	statsHandler := handler.NewStatsHandler(svcCtx.Portfolio)

	// API路由
	api := r.Group("/api")
	{
		artifacts := api.Group("/artifacts")
		{
			artifacts.GET("", artifactHandler.ListArtifacts)
			artifacts.POST("", artifactHandler.CreateArtifact)
			artifacts.GET("/:id", artifactHandler.GetArtifact)
			artifacts.PUT("/:id", artifactHandler.UpdateArtifact)
			artifacts.DELETE("/:id", artifactHandler.DeleteArtifact)
		}

		datasets := api.Group("/datasets")
		{
			datasets.GET("", datasetHandler.ListDatasets)
			datasets.POST("", datasetHandler.CreateDataset)
			datasets.PUT("/:id", datasetHandler.UpdateDataset)
		}

		protocols := api.Group("/protocols")
		{
			protocols.GET("", protocolHandler.ListProtocols)
			protocols.POST("", protocolHandler.CreateProtocol)
			protocols.POST("/:id/usage", protocolHandler.LogUsage)
			protocols.GET("/:id/history", protocolHandler.GetUsageHistory)
		}

		mining := api.Group("/mining")
		{
			mining.GET("", miningHandler.ListTasks)
			mining.POST("", miningHandler.CreateTask)
			mining.PUT("/:id", miningHandler.UpdateTask)
		}

		api.GET("/stats", statsHandler.GetStats)
		api.GET("/report", statsHandler.GetReport)
	}

	return r
}
