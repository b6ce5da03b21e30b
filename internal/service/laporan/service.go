// Package laporan orchestrates report writes around the siklus engine:
// sequencing, validation, stock derivation and the farmer lifecycle updates
// that follow every mutation.
package laporan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sidomulyo-dev/gaduh/internal/domain/models"
	"github.com/sidomulyo-dev/gaduh/internal/domain/siklus"
	"github.com/sidomulyo-dev/gaduh/internal/repository/mongodb"
	"github.com/sidomulyo-dev/gaduh/pkg/clients/notify"
)

var (
	// ErrPeternakNotFound means the referenced farmer does not exist.
	ErrPeternakNotFound = errors.New("data peternak tidak ditemukan")

	// ErrLaporanNotFound means the referenced report does not exist.
	ErrLaporanNotFound = errors.New("laporan tidak ditemukan")

	// ErrCycleComplete blocks creation of a 9th report.
	ErrCycleComplete = errors.New("siklus laporan sudah lengkap (8 laporan)")

	// ErrCycleLocked blocks edits and deletions once the cycle is Selesai.
	ErrCycleLocked = errors.New("siklus sudah selesai dan laporan tidak dapat diubah")

	// ErrNotLatest blocks mutations of any report other than the newest one,
	// which would break the continuation chain.
	ErrNotLatest = errors.New("hanya laporan terakhir yang dapat diubah atau dihapus")
)

// ValidationError carries per-field messages for the form layer.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "data laporan tidak valid" }

// SequenceError reports a duplicate or out-of-order report number.
type SequenceError struct {
	Message string
}

func (e *SequenceError) Error() string { return e.Message }

// Service coordinates report persistence with the continuation rules.
type Service struct {
	peternak mongodb.PeternakRepository
	laporan  mongodb.LaporanRepository
	notifier notify.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a report service instance.
func NewService(peternakRepo mongodb.PeternakRepository, laporanRepo mongodb.LaporanRepository, notifier notify.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		peternak: peternakRepo,
		laporan:  laporanRepo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ListByPeternak returns a farmer's reports in sequence order.
func (s *Service) ListByPeternak(ctx context.Context, peternakID string, filter mongodb.LaporanFilter) ([]models.Laporan, error) {
	p, err := s.findPeternak(ctx, peternakID)
	if err != nil {
		return nil, err
	}
	return s.laporan.ListByPeternak(ctx, p.ID, filter)
}

// Prefill computes the values the report form starts from: the next report
// number and the stock carried forward from the end of the previous report.
func (s *Service) Prefill(ctx context.Context, peternakID string) (*models.LaporanPrefill, error) {
	p, err := s.findPeternak(ctx, peternakID)
	if err != nil {
		return nil, err
	}

	existing, err := s.laporan.ListByPeternak(ctx, p.ID, mongodb.LaporanFilter{})
	if err != nil {
		return nil, err
	}

	return &models.LaporanPrefill{
		NextReportNumber:    siklus.NextReportNumber(existing),
		CarriedInitialStock: siklus.CarriedForwardInitialStock(existing, p.JumlahTernakAwal),
		ExistingReports:     len(existing),
		CanCreate:           siklus.CanCreateReport(p, existing),
	}, nil
}

// Create validates and stores a new report, then reconciles the farmer's
// lifecycle state against the new report count.
func (s *Service) Create(ctx context.Context, peternakID string, req models.LaporanRequest) (*models.Laporan, error) {
	p, err := s.findPeternak(ctx, peternakID)
	if err != nil {
		return nil, err
	}

	existing, err := s.laporan.ListByPeternak(ctx, p.ID, mongodb.LaporanFilter{})
	if err != nil {
		return nil, err
	}

	if !siklus.CanCreateReport(p, existing) {
		return nil, ErrCycleComplete
	}

	now := s.now()
	if verr := s.validateInput(req, existing, p.JumlahTernakAwal, now); verr != nil {
		return nil, verr
	}

	number := siklus.NextReportNumber(existing)
	if req.ReportNumber != nil {
		number = *req.ReportNumber
	}
	if seq := siklus.ValidateSequence(number, existing); !seq.Valid {
		return nil, &SequenceError{Message: seq.Message}
	}

	l, verr := s.buildLaporan(p, number, req, now)
	if verr != nil {
		return nil, verr
	}

	if err := s.laporan.Insert(ctx, l); err != nil {
		return nil, err
	}

	if err := s.reconcileStatus(ctx, p, now); err != nil {
		return nil, err
	}

	s.logger.Info("laporan created",
		zap.String("peternak_id", peternakID),
		zap.Int("report_number", l.ReportNumber),
		zap.Int("current_stock", l.JumlahTernakSaatIni))

	return l, nil
}

// Update rewrites the newest report in place. Older reports are immutable:
// their ending stock already seeds later reports.
func (s *Service) Update(ctx context.Context, laporanID string, req models.LaporanRequest) (*models.Laporan, error) {
	l, err := s.findLaporan(ctx, laporanID)
	if err != nil {
		return nil, err
	}

	p, err := s.findPeternak(ctx, l.PeternakID.Hex())
	if err != nil {
		return nil, err
	}
	if p.StatusSiklus == models.SiklusSelesai {
		return nil, ErrCycleLocked
	}

	existing, err := s.laporan.ListByPeternak(ctx, p.ID, mongodb.LaporanFilter{})
	if err != nil {
		return nil, err
	}
	if l.ReportNumber != highestNumber(existing) {
		return nil, ErrNotLatest
	}
	if req.ReportNumber != nil && *req.ReportNumber != l.ReportNumber {
		return nil, &SequenceError{Message: "nomor laporan tidak dapat diubah"}
	}

	prior := reportsBefore(existing, l.ReportNumber)
	now := s.now()
	if verr := s.validateInput(req, prior, p.JumlahTernakAwal, now); verr != nil {
		return nil, verr
	}

	updated, verr := s.buildLaporan(p, l.ReportNumber, req, now)
	if verr != nil {
		return nil, verr
	}
	updated.ID = l.ID
	updated.CreatedAt = l.CreatedAt

	if err := s.laporan.Update(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Info("laporan updated",
		zap.String("laporan_id", laporanID),
		zap.Int("report_number", updated.ReportNumber))

	return updated, nil
}

// Delete removes the newest report and rolls the farmer's automatic status
// fields back to match the reduced count. Completed cycles are locked.
func (s *Service) Delete(ctx context.Context, laporanID string) error {
	l, err := s.findLaporan(ctx, laporanID)
	if err != nil {
		return err
	}

	p, err := s.findPeternak(ctx, l.PeternakID.Hex())
	if err != nil {
		return err
	}
	if p.StatusSiklus == models.SiklusSelesai {
		return ErrCycleLocked
	}

	existing, err := s.laporan.ListByPeternak(ctx, p.ID, mongodb.LaporanFilter{})
	if err != nil {
		return err
	}
	if l.ReportNumber != highestNumber(existing) {
		return ErrNotLatest
	}

	if err := s.laporan.Delete(ctx, laporanID); err != nil {
		return err
	}

	if err := s.reconcileStatus(ctx, p, s.now()); err != nil {
		return err
	}

	s.logger.Info("laporan deleted",
		zap.String("laporan_id", laporanID),
		zap.Int("report_number", l.ReportNumber))

	return nil
}

// validateInput runs the engine's field validation plus the carried-forward
// consistency rule for reports after the first.
func (s *Service) validateInput(req models.LaporanRequest, prior []models.Laporan, registeredInitial int, now time.Time) error {
	res := siklus.ValidateReportInput(siklus.ReportInput{
		JumlahTernakAwal: req.JumlahTernakAwal,
		JumlahLahir:      req.JumlahLahir,
		JumlahKematian:   req.JumlahKematian,
		JumlahTerjual:    req.JumlahTerjual,
		TanggalLaporan:   req.TanggalLaporan,
	}, now)

	errs := res.Errors
	if res.Valid && len(prior) > 0 {
		carried := siklus.CarriedForwardInitialStock(prior, registeredInitial)
		if *req.JumlahTernakAwal != carried {
			errs[siklus.FieldTernakAwal] = fmt.Sprintf(
				"harus sama dengan stok akhir laporan sebelumnya (%d)", carried)
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// buildLaporan assembles the document from an already validated request.
func (s *Service) buildLaporan(p *models.Peternak, number int, req models.LaporanRequest, now time.Time) (*models.Laporan, error) {
	reportDate, err := time.ParseInLocation(siklus.DateLayout, req.TanggalLaporan, now.Location())
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{
			siklus.FieldTanggal: "format tanggal tidak valid, gunakan YYYY-MM-DD",
		}}
	}

	l := &models.Laporan{
		PeternakID:          p.ID,
		ReportNumber:        number,
		JumlahTernakAwal:    *req.JumlahTernakAwal,
		JumlahLahir:         *req.JumlahLahir,
		JumlahKematian:      *req.JumlahKematian,
		JumlahTerjual:       *req.JumlahTerjual,
		JumlahTernakSaatIni: siklus.DeriveCurrentStock(*req.JumlahTernakAwal, *req.JumlahLahir, *req.JumlahKematian, *req.JumlahTerjual),
		Kendala:             req.Kendala,
		Solusi:              req.Solusi,
		Keterangan:          req.Keterangan,
		TanggalLaporan:      reportDate,
		Year:                reportDate.Year(),
		DisplayPeriod:       req.DisplayPeriod,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if req.StartDate != "" {
		start, err := time.ParseInLocation(siklus.DateLayout, req.StartDate, now.Location())
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{
				"startDate": "format tanggal tidak valid, gunakan YYYY-MM-DD",
			}}
		}
		l.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.ParseInLocation(siklus.DateLayout, req.EndDate, now.Location())
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{
				"endDate": "format tanggal tidak valid, gunakan YYYY-MM-DD",
			}}
		}
		l.EndDate = &end
	}

	return l, nil
}

// reconcileStatus recounts the farmer's reports, applies the lifecycle rules
// and fires the completion notification the moment the cycle closes.
func (s *Service) reconcileStatus(ctx context.Context, p *models.Peternak, now time.Time) error {
	count, err := s.laporan.CountByPeternak(ctx, p.ID)
	if err != nil {
		return err
	}

	wasComplete := p.StatusSiklus == models.SiklusSelesai
	if !siklus.ApplyReportCount(p, count, now) {
		return nil
	}

	p.UpdatedAt = now
	if err := s.peternak.Update(ctx, p); err != nil {
		return err
	}

	if !wasComplete && p.StatusSiklus == models.SiklusSelesai {
		// Best effort only; a webhook outage must not fail the write.
		if err := s.notifier.NotifyCycleComplete(ctx, p); err != nil {
			s.logger.Warn("cycle completion notification failed",
				zap.String("nik", p.NIK), zap.Error(err))
		}
	}
	return nil
}

func (s *Service) findPeternak(ctx context.Context, id string) (*models.Peternak, error) {
	p, err := s.peternak.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, ErrPeternakNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) findLaporan(ctx context.Context, id string) (*models.Laporan, error) {
	l, err := s.laporan.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, ErrLaporanNotFound
		}
		return nil, err
	}
	return l, nil
}

func highestNumber(reports []models.Laporan) int {
	highest := 0
	for _, l := range reports {
		if l.ReportNumber > highest {
			highest = l.ReportNumber
		}
	}
	return highest
}

func reportsBefore(reports []models.Laporan, number int) []models.Laporan {
	var prior []models.Laporan
	for _, l := range reports {
		if l.ReportNumber < number {
			prior = append(prior, l)
		}
	}
	return prior
}
