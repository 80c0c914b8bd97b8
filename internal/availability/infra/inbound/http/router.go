package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterStreamRoutes(r *gin.Engine, handler *StreamHandler) {
	v1 := r.Group("/v1/stream")
	{
		v1.POST("/batches", handler.ProcessBatch)
	}
}

// RegisterOpsRoutes expone /health y /metrics.
func RegisterOpsRoutes(r *gin.Engine, gatherer prometheus.Gatherer) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
