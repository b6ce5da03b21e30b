// Package export flattens farmers and their report chains into spreadsheet
// rows for the program's bookkeeping sheet.
package export

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sidomulyo-dev/gaduh/internal/domain/models"
	"github.com/sidomulyo-dev/gaduh/internal/repository/mongodb"
	"github.com/sidomulyo-dev/gaduh/internal/repository/sheets"
)

const (
	dateLayout    = "2006-01-02"
	peternakRange = "Peternak!A:L"
	laporanRange  = "Laporan!A:L"
)

// Service pushes read-only snapshots of program data into the export sheet.
type Service struct {
	sheets   sheets.Repository
	peternak mongodb.PeternakRepository
	laporan  mongodb.LaporanRepository
	logger   *zap.Logger
}

// NewService wires an export service instance.
func NewService(sheetsRepo sheets.Repository, peternakRepo mongodb.PeternakRepository, laporanRepo mongodb.LaporanRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sheets:   sheetsRepo,
		peternak: peternakRepo,
		laporan:  laporanRepo,
		logger:   logger,
	}
}

// ExportPeternak appends one farmer's summary row plus one row per report,
// in sequence order, to the export sheet.
func (s *Service) ExportPeternak(ctx context.Context, id string) error {
	p, err := s.peternak.FindByID(ctx, id)
	if err != nil {
		return err
	}

	reports, err := s.laporan.ListByPeternak(ctx, p.ID, mongodb.LaporanFilter{})
	if err != nil {
		return err
	}
	p.JumlahLaporan = len(reports)

	if err := s.sheets.AppendRows(ctx, peternakRange, [][]interface{}{peternakRow(*p)}); err != nil {
		return fmt.Errorf("export peternak summary: %w", err)
	}

	rows := make([][]interface{}, 0, len(reports))
	for _, l := range reports {
		rows = append(rows, laporanRow(*p, l))
	}
	if err := s.sheets.AppendRows(ctx, laporanRange, rows); err != nil {
		return fmt.Errorf("export laporan rows: %w", err)
	}

	s.logger.Info("peternak exported",
		zap.String("nik", p.NIK),
		zap.Int("laporan", len(reports)))
	return nil
}

// ExportRoster appends a summary row for every registered farmer.
func (s *Service) ExportRoster(ctx context.Context) error {
	farmers, err := s.peternak.List(ctx, mongodb.PeternakFilter{})
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(farmers))
	for i := range farmers {
		count, err := s.laporan.CountByPeternak(ctx, farmers[i].ID)
		if err != nil {
			return err
		}
		farmers[i].JumlahLaporan = count
		rows = append(rows, peternakRow(farmers[i]))
	}

	if err := s.sheets.AppendRows(ctx, peternakRange, rows); err != nil {
		return fmt.Errorf("export roster: %w", err)
	}

	s.logger.Info("roster exported", zap.Int("peternak", len(rows)))
	return nil
}

func peternakRow(p models.Peternak) []interface{} {
	tanggalSelesai := ""
	if p.TanggalSelesai != nil {
		tanggalSelesai = p.TanggalSelesai.Format(dateLayout)
	}
	return []interface{}{
		p.NIK,
		p.NamaLengkap,
		p.Alamat,
		p.NomorTelepon,
		p.JenisKelamin,
		p.TanggalDaftar.Format(dateLayout),
		p.JumlahTernakAwal,
		p.TargetPengembalian,
		string(p.StatusSiklus),
		string(p.StatusKinerja),
		p.JumlahLaporan,
		tanggalSelesai,
	}
}

func laporanRow(p models.Peternak, l models.Laporan) []interface{} {
	return []interface{}{
		p.NIK,
		p.NamaLengkap,
		l.ReportNumber,
		l.TanggalLaporan.Format(dateLayout),
		l.DisplayPeriod,
		l.JumlahTernakAwal,
		l.JumlahLahir,
		l.JumlahKematian,
		l.JumlahTerjual,
		l.JumlahTernakSaatIni,
		l.Kendala,
		l.Solusi,
	}
}
