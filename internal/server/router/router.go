package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sidomulyo-dev/gaduh/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. The export
// handler may be nil when no export spreadsheet is configured.
func New(peternakHandler *handlers.PeternakHandler, laporanHandler *handlers.LaporanHandler, exportHandler *handlers.ExportHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(sessionMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Public landing pages only read.
	api.GET("/peternak", peternakHandler.List)
	api.GET("/peternak/:id", peternakHandler.Get)
	api.GET("/peternak/:id/laporan", laporanHandler.ListByPeternak)

	admin := api.Group("", RequireAdmin())
	admin.POST("/peternak", peternakHandler.Register)
	admin.PUT("/peternak/:id", peternakHandler.Update)
	admin.DELETE("/peternak/:id", peternakHandler.Delete)
	admin.POST("/peternak/:id/rating", peternakHandler.Rate)
	admin.GET("/peternak/:id/laporan/prefill", laporanHandler.Prefill)
	admin.POST("/peternak/:id/laporan", laporanHandler.Create)
	admin.PUT("/laporan/:id", laporanHandler.Update)
	admin.DELETE("/laporan/:id", laporanHandler.Delete)

	if exportHandler != nil {
		admin.POST("/export/peternak/:id", exportHandler.ExportPeternak)
		admin.POST("/export/peternak", exportHandler.ExportRoster)
	}

	if logger != nil {
		logger.Info("router initialized", zap.Bool("export_enabled", exportHandler != nil))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("client_ip", c.ClientIP()))
	}
}
