package siklus

import (
	"errors"
	"time"

	"github.com/sidomulyo-dev/gaduh/internal/domain/models"
)

var (
	// ErrInvalidRating rejects values outside the terminal rating set.
	ErrInvalidRating = errors.New("nilai kinerja tidak dikenal")

	// ErrCycleNotComplete rejects a rating before the 8th report exists.
	ErrCycleNotComplete = errors.New("siklus laporan belum selesai")

	// ErrAlreadyRated rejects re-rating once a terminal value is assigned.
	ErrAlreadyRated = errors.New("peternak sudah memiliki nilai kinerja akhir")
)

// DeriveStatusSiklus maps a report count onto the cycle axis.
func DeriveStatusSiklus(reportCount int) models.StatusSiklus {
	if reportCount >= MaxReports {
		return models.SiklusSelesai
	}
	return models.SiklusMulai
}

// DeriveStatusKinerja maps a report count onto the automatic part of the
// performance axis. A terminal rating already assigned by an administrator
// is never overwritten.
func DeriveStatusKinerja(reportCount int, current models.StatusKinerja) models.StatusKinerja {
	if current.Terminal() {
		return current
	}
	if reportCount == 0 {
		return models.KinerjaBaru
	}
	return models.KinerjaProgress
}

// ApplyReportCount reconciles a farmer's stored lifecycle fields with the
// actual report count. The cycle transition is one-way: tanggal_selesai is
// stamped the first time the count reaches 8 and never cleared. Returns true
// when any field changed.
func ApplyReportCount(p *models.Peternak, reportCount int, now time.Time) bool {
	if p == nil {
		return false
	}

	changed := false

	if siklus := DeriveStatusSiklus(reportCount); siklus == models.SiklusSelesai && p.StatusSiklus != models.SiklusSelesai {
		p.StatusSiklus = models.SiklusSelesai
		changed = true
	}
	if p.StatusSiklus == models.SiklusSelesai && p.TanggalSelesai == nil {
		ts := now
		p.TanggalSelesai = &ts
		changed = true
	}

	if kinerja := DeriveStatusKinerja(reportCount, p.StatusKinerja); kinerja != p.StatusKinerja {
		p.StatusKinerja = kinerja
		changed = true
	}

	return changed
}

// ValidateRating gates the manual terminal-rating transition: only a farmer
// whose cycle is Selesai and whose performance is still the automatic
// Progress value may receive exactly one of Bagus, Biasa or Kurang.
func ValidateRating(p *models.Peternak, rating models.StatusKinerja) error {
	if !rating.Terminal() {
		return ErrInvalidRating
	}
	if p.StatusKinerja.Terminal() {
		return ErrAlreadyRated
	}
	if p.StatusSiklus != models.SiklusSelesai {
		return ErrCycleNotComplete
	}
	return nil
}
