package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	exportsvc "github.com/sidomulyo-dev/gaduh/internal/service/export"
)

// ExportHandler serves the spreadsheet export endpoints. It is only mounted
// when an export spreadsheet is configured.
type ExportHandler struct {
	svc    *exportsvc.Service
	logger *zap.Logger
}

// NewExportHandler constructs the HTTP handler adapter.
func NewExportHandler(svc *exportsvc.Service, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{svc: svc, logger: logger}
}

// ExportPeternak pushes one farmer and its report chain to the export sheet.
func (h *ExportHandler) ExportPeternak(c *gin.Context) {
	if err := h.svc.ExportPeternak(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("export peternak failed", zap.String("id", c.Param("id")), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "data peternak diekspor"})
}

// ExportRoster pushes a summary row for every farmer to the export sheet.
func (h *ExportHandler) ExportRoster(c *gin.Context) {
	if err := h.svc.ExportRoster(c.Request.Context()); err != nil {
		h.logger.Error("export roster failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "daftar peternak diekspor"})
}
