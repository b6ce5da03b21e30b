// Package scheduler runs the nightly lifecycle audit: stored farmer status
// fields are reconciled against the actual report counts so that drift,
// however introduced, never survives longer than a day.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sidomulyo-dev/gaduh/internal/config"
	"github.com/sidomulyo-dev/gaduh/internal/domain/siklus"
	"github.com/sidomulyo-dev/gaduh/internal/repository/mongodb"
)

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	peternak mongodb.PeternakRepository
	laporan  mongodb.LaporanRepository
	cfg      config.AuditConfig
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured
// timezone; an unknown timezone falls back to the process-local one.
func NewScheduler(cfg config.AuditConfig, peternakRepo mongodb.PeternakRepository, laporanRepo mongodb.LaporanRepository, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.Local
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		peternak: peternakRepo,
		laporan:  laporanRepo,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers and starts the audit job.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runAudit); err != nil {
		s.logger.Error("failed to schedule lifecycle audit", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	farmers, err := s.peternak.List(ctx, mongodb.PeternakFilter{})
	if err != nil {
		s.logger.Error("lifecycle audit failed to list peternak", zap.Error(err))
		return
	}

	now := time.Now()
	repaired := 0

	for i := range farmers {
		p := &farmers[i]

		count, err := s.laporan.CountByPeternak(ctx, p.ID)
		if err != nil {
			s.logger.Error("lifecycle audit failed to count laporan",
				zap.String("nik", p.NIK), zap.Error(err))
			continue
		}

		if !siklus.ApplyReportCount(p, count, now) {
			continue
		}

		p.UpdatedAt = now
		if err := s.peternak.Update(ctx, p); err != nil {
			s.logger.Error("lifecycle audit failed to repair peternak",
				zap.String("nik", p.NIK), zap.Error(err))
			continue
		}

		repaired++
		s.logger.Warn("lifecycle drift repaired",
			zap.String("nik", p.NIK),
			zap.Int("laporan_count", count),
			zap.String("status_siklus", string(p.StatusSiklus)),
			zap.String("status_kinerja", string(p.StatusKinerja)))
	}

	s.logger.Info("lifecycle audit finished",
		zap.Int("peternak", len(farmers)),
		zap.Int("repaired", repaired))
}
