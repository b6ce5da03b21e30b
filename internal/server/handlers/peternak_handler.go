package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sidomulyo-dev/gaduh/internal/domain/models"
	"github.com/sidomulyo-dev/gaduh/internal/repository/mongodb"
	peternaksvc "github.com/sidomulyo-dev/gaduh/internal/service/peternak"
)

// PeternakHandler serves the farmer CRUD and rating endpoints.
type PeternakHandler struct {
	svc    *peternaksvc.Service
	logger *zap.Logger
}

// NewPeternakHandler constructs the HTTP handler adapter.
func NewPeternakHandler(svc *peternaksvc.Service, logger *zap.Logger) *PeternakHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeternakHandler{svc: svc, logger: logger}
}

// List returns farmers, optionally filtered by status axes or name.
func (h *PeternakHandler) List(c *gin.Context) {
	filter := mongodb.PeternakFilter{
		StatusSiklus:  models.StatusSiklus(c.Query("statusSiklus")),
		StatusKinerja: models.StatusKinerja(c.Query("statusKinerja")),
		Nama:          c.Query("nama"),
	}

	farmers, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed listing peternak", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": farmers})
}

// Get returns one farmer with its computed report count.
func (h *PeternakHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": p})
}

// Register creates a new farmer.
func (h *PeternakHandler) Register(c *gin.Context) {
	var req models.PeternakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid peternak payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "permintaan tidak valid"})
		return
	}

	p, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": p})
}

// Update edits a farmer's descriptive attributes.
func (h *PeternakHandler) Update(c *gin.Context) {
	var req models.PeternakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid peternak payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "permintaan tidak valid"})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": p})
}

// Delete removes a farmer and all of its reports.
func (h *PeternakHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("failed deleting peternak", zap.String("id", c.Param("id")), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "peternak dan seluruh laporannya dihapus"})
}

// Rate assigns the terminal performance rating after cycle completion.
func (h *PeternakHandler) Rate(c *gin.Context) {
	var req models.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "permintaan tidak valid"})
		return
	}

	p, err := h.svc.AssignRating(c.Request.Context(), c.Param("id"), req.StatusKinerja)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": p})
}
