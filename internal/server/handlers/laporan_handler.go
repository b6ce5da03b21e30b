package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sidomulyo-dev/gaduh/internal/domain/models"
	"github.com/sidomulyo-dev/gaduh/internal/repository/mongodb"
	laporansvc "github.com/sidomulyo-dev/gaduh/internal/service/laporan"
)

// LaporanHandler serves the report endpoints.
type LaporanHandler struct {
	svc    *laporansvc.Service
	logger *zap.Logger
}

// NewLaporanHandler constructs the HTTP handler adapter.
func NewLaporanHandler(svc *laporansvc.Service, logger *zap.Logger) *LaporanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LaporanHandler{svc: svc, logger: logger}
}

// ListByPeternak returns a farmer's reports in sequence order, optionally
// filtered by year or display period.
func (h *LaporanHandler) ListByPeternak(c *gin.Context) {
	filter := mongodb.LaporanFilter{
		DisplayPeriod: c.Query("periode"),
	}
	if yearStr := c.Query("tahun"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parameter tahun tidak valid"})
			return
		}
		filter.Year = year
	}

	reports, err := h.svc.ListByPeternak(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reports})
}

// Prefill returns the next report number and carried-forward initial stock
// for the farmer's report form.
func (h *LaporanHandler) Prefill(c *gin.Context) {
	prefill, err := h.svc.Prefill(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": prefill})
}

// Create stores a new report for the farmer.
func (h *LaporanHandler) Create(c *gin.Context) {
	var req models.LaporanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid laporan payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "permintaan tidak valid"})
		return
	}

	l, err := h.svc.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": l})
}

// Update rewrites the newest report.
func (h *LaporanHandler) Update(c *gin.Context) {
	var req models.LaporanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid laporan payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "permintaan tidak valid"})
		return
	}

	l, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": l})
}

// Delete removes the newest report.
func (h *LaporanHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "laporan dihapus"})
}
