// Package peternak manages farmer registration, edits, cascade deletion and
// the administrator-assigned terminal performance rating.
package peternak

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sidomulyo-dev/gaduh/internal/domain/models"
	"github.com/sidomulyo-dev/gaduh/internal/domain/siklus"
	"github.com/sidomulyo-dev/gaduh/internal/repository/mongodb"
)

var (
	// ErrNotFound means the referenced farmer does not exist.
	ErrNotFound = errors.New("data peternak tidak ditemukan")

	// ErrNIKTaken rejects registration with an already registered NIK.
	ErrNIKTaken = errors.New("NIK sudah terdaftar")

	// ErrNIKImmutable rejects edits that try to change the NIK.
	ErrNIKImmutable = errors.New("NIK tidak dapat diubah")

	// ErrTargetRequired rejects registration without a positive return target.
	ErrTargetRequired = errors.New("target pengembalian wajib diisi dan harus positif")

	// ErrInvalidDate rejects unparseable registration dates.
	ErrInvalidDate = errors.New("format tanggal tidak valid, gunakan YYYY-MM-DD")
)

// Service coordinates farmer persistence and lifecycle transitions.
type Service struct {
	peternak mongodb.PeternakRepository
	laporan  mongodb.LaporanRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a farmer service instance.
func NewService(peternakRepo mongodb.PeternakRepository, laporanRepo mongodb.LaporanRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		peternak: peternakRepo,
		laporan:  laporanRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates a new farmer in the Baru/Mulai state. The initial stock
// defaults when the form leaves it blank; the return target is mandatory.
func (s *Service) Register(ctx context.Context, req models.PeternakRequest) (*models.Peternak, error) {
	if _, err := s.peternak.FindByNIK(ctx, req.NIK); err == nil {
		return nil, ErrNIKTaken
	} else if !errors.Is(err, mongodb.ErrNotFound) {
		return nil, err
	}

	if req.TargetPengembalian == nil || *req.TargetPengembalian <= 0 {
		return nil, ErrTargetRequired
	}

	now := s.now()

	tanggalDaftar := now
	if req.TanggalDaftar != "" {
		parsed, err := time.ParseInLocation(siklus.DateLayout, req.TanggalDaftar, now.Location())
		if err != nil {
			return nil, ErrInvalidDate
		}
		tanggalDaftar = parsed
	}

	initialStock := siklus.DefaultInitialStock
	if req.JumlahTernakAwal != nil && *req.JumlahTernakAwal > 0 {
		initialStock = *req.JumlahTernakAwal
	}

	p := &models.Peternak{
		NIK:                req.NIK,
		NamaLengkap:        req.NamaLengkap,
		Alamat:             req.Alamat,
		NomorTelepon:       req.NomorTelepon,
		JenisKelamin:       req.JenisKelamin,
		TanggalDaftar:      tanggalDaftar,
		JumlahTernakAwal:   initialStock,
		TargetPengembalian: *req.TargetPengembalian,
		StatusSiklus:       models.SiklusMulai,
		StatusKinerja:      models.KinerjaBaru,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.peternak.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("peternak registered",
		zap.String("nik", p.NIK),
		zap.Int("initial_stock", p.JumlahTernakAwal))

	return p, nil
}

// Get fetches one farmer with its report count computed from the laporan
// collection.
func (s *Service) Get(ctx context.Context, id string) (*models.Peternak, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachCount(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns farmers matching the filter, each with its computed report
// count. The roster is village sized; the per-farmer recount stays cheap.
func (s *Service) List(ctx context.Context, filter mongodb.PeternakFilter) ([]models.Peternak, error) {
	farmers, err := s.peternak.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range farmers {
		if err := s.attachCount(ctx, &farmers[i]); err != nil {
			return nil, err
		}
	}
	return farmers, nil
}

// Update edits a farmer's descriptive attributes. The NIK is immutable and
// lifecycle fields are never set directly through this path.
func (s *Service) Update(ctx context.Context, id string, req models.PeternakRequest) (*models.Peternak, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.NIK != "" && req.NIK != p.NIK {
		return nil, ErrNIKImmutable
	}

	now := s.now()

	if req.NamaLengkap != "" {
		p.NamaLengkap = req.NamaLengkap
	}
	if req.Alamat != "" {
		p.Alamat = req.Alamat
	}
	if req.NomorTelepon != "" {
		p.NomorTelepon = req.NomorTelepon
	}
	if req.JenisKelamin != "" {
		p.JenisKelamin = req.JenisKelamin
	}
	if req.TanggalDaftar != "" {
		parsed, err := time.ParseInLocation(siklus.DateLayout, req.TanggalDaftar, now.Location())
		if err != nil {
			return nil, ErrInvalidDate
		}
		p.TanggalDaftar = parsed
	}
	if req.JumlahTernakAwal != nil && *req.JumlahTernakAwal > 0 {
		p.JumlahTernakAwal = *req.JumlahTernakAwal
	}
	if req.TargetPengembalian != nil && *req.TargetPengembalian > 0 {
		p.TargetPengembalian = *req.TargetPengembalian
	}
	p.UpdatedAt = now

	if err := s.peternak.Update(ctx, p); err != nil {
		return nil, err
	}

	if err := s.attachCount(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the farmer together with all of its reports in one atomic
// operation.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.peternak.DeleteWithLaporan(ctx, id); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// AssignRating records the administrator's terminal performance rating for a
// farmer whose cycle has completed. The transition happens exactly once.
func (s *Service) AssignRating(ctx context.Context, id string, rating models.StatusKinerja) (*models.Peternak, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := siklus.ValidateRating(p, rating); err != nil {
		return nil, err
	}

	p.StatusKinerja = rating
	p.UpdatedAt = s.now()

	if err := s.peternak.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("peternak rated",
		zap.String("nik", p.NIK),
		zap.String("rating", string(rating)))

	if err := s.attachCount(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) find(ctx context.Context, id string) (*models.Peternak, error) {
	p, err := s.peternak.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) attachCount(ctx context.Context, p *models.Peternak) error {
	count, err := s.laporan.CountByPeternak(ctx, p.ID)
	if err != nil {
		return err
	}
	p.JumlahLaporan = count
	return nil
}
