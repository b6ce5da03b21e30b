package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sidomulyo-dev/gaduh/internal/domain/siklus"
	"github.com/sidomulyo-dev/gaduh/internal/repository/mongodb"
	laporansvc "github.com/sidomulyo-dev/gaduh/internal/service/laporan"
	peternaksvc "github.com/sidomulyo-dev/gaduh/internal/service/peternak"
)

// respondError translates domain errors into HTTP responses. Unknown errors
// become a generic 500 so internal detail never reaches the client.
func respondError(c *gin.Context, err error) {
	var verr *laporansvc.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "data tidak valid",
			"fields": verr.Fields,
		})
		return
	}

	var serr *laporansvc.SequenceError
	if errors.As(err, &serr) {
		c.JSON(http.StatusConflict, gin.H{"error": serr.Message})
		return
	}

	switch {
	case errors.Is(err, peternaksvc.ErrNotFound),
		errors.Is(err, laporansvc.ErrPeternakNotFound),
		errors.Is(err, laporansvc.ErrLaporanNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "data tidak ditemukan"})
	case errors.Is(err, peternaksvc.ErrNIKTaken),
		errors.Is(err, peternaksvc.ErrNIKImmutable),
		errors.Is(err, laporansvc.ErrCycleComplete),
		errors.Is(err, laporansvc.ErrCycleLocked),
		errors.Is(err, laporansvc.ErrNotLatest),
		errors.Is(err, siklus.ErrCycleNotComplete),
		errors.Is(err, siklus.ErrAlreadyRated):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, peternaksvc.ErrTargetRequired),
		errors.Is(err, peternaksvc.ErrInvalidDate),
		errors.Is(err, siklus.ErrInvalidRating):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "terjadi kesalahan pada server"})
	}
}
