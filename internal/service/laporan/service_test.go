package laporan

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sidomulyo-dev/gaduh/internal/domain/models"
	"github.com/sidomulyo-dev/gaduh/internal/domain/siklus"
	"github.com/sidomulyo-dev/gaduh/internal/repository/mongodb"
)

// mockPeternakRepo implements mongodb.PeternakRepository in memory.
type mockPeternakRepo struct {
	farmers map[string]*models.Peternak
}

func newMockPeternakRepo() *mockPeternakRepo {
	return &mockPeternakRepo{farmers: make(map[string]*models.Peternak)}
}

func (m *mockPeternakRepo) Insert(_ context.Context, p *models.Peternak) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	cp := *p
	m.farmers[p.ID.Hex()] = &cp
	return nil
}

func (m *mockPeternakRepo) FindByID(_ context.Context, id string) (*models.Peternak, error) {
	if p, ok := m.farmers[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockPeternakRepo) FindByNIK(_ context.Context, nik string) (*models.Peternak, error) {
	for _, p := range m.farmers {
		if p.NIK == nik {
			cp := *p
			return &cp, nil
		}
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockPeternakRepo) List(_ context.Context, _ mongodb.PeternakFilter) ([]models.Peternak, error) {
	var result []models.Peternak
	for _, p := range m.farmers {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPeternakRepo) Update(_ context.Context, p *models.Peternak) error {
	if _, ok := m.farmers[p.ID.Hex()]; !ok {
		return mongodb.ErrNotFound
	}
	cp := *p
	m.farmers[p.ID.Hex()] = &cp
	return nil
}

func (m *mockPeternakRepo) DeleteWithLaporan(_ context.Context, id string) error {
	if _, ok := m.farmers[id]; !ok {
		return mongodb.ErrNotFound
	}
	delete(m.farmers, id)
	return nil
}

// mockLaporanRepo implements mongodb.LaporanRepository in memory.
type mockLaporanRepo struct {
	reports map[string]*models.Laporan
}

func newMockLaporanRepo() *mockLaporanRepo {
	return &mockLaporanRepo{reports: make(map[string]*models.Laporan)}
}

func (m *mockLaporanRepo) Insert(_ context.Context, l *models.Laporan) error {
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	cp := *l
	m.reports[l.ID.Hex()] = &cp
	return nil
}

func (m *mockLaporanRepo) FindByID(_ context.Context, id string) (*models.Laporan, error) {
	if l, ok := m.reports[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, mongodb.ErrNotFound
}

func (m *mockLaporanRepo) ListByPeternak(_ context.Context, peternakID primitive.ObjectID, filter mongodb.LaporanFilter) ([]models.Laporan, error) {
	var result []models.Laporan
	for _, l := range m.reports {
		if l.PeternakID != peternakID {
			continue
		}
		if filter.Year != 0 && l.Year != filter.Year {
			continue
		}
		if filter.DisplayPeriod != "" && l.DisplayPeriod != filter.DisplayPeriod {
			continue
		}
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ReportNumber < result[j].ReportNumber })
	return result, nil
}

func (m *mockLaporanRepo) CountByPeternak(_ context.Context, peternakID primitive.ObjectID) (int, error) {
	count := 0
	for _, l := range m.reports {
		if l.PeternakID == peternakID {
			count++
		}
	}
	return count, nil
}

func (m *mockLaporanRepo) Update(_ context.Context, l *models.Laporan) error {
	if _, ok := m.reports[l.ID.Hex()]; !ok {
		return mongodb.ErrNotFound
	}
	cp := *l
	m.reports[l.ID.Hex()] = &cp
	return nil
}

func (m *mockLaporanRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.reports[id]; !ok {
		return mongodb.ErrNotFound
	}
	delete(m.reports, id)
	return nil
}

// mockNotifier records completion events.
type mockNotifier struct {
	completed []string
}

func (m *mockNotifier) NotifyCycleComplete(_ context.Context, p *models.Peternak) error {
	m.completed = append(m.completed, p.NIK)
	return nil
}

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	peternak  *mockPeternakRepo
	laporan   *mockLaporanRepo
	notifier  *mockNotifier
	farmerID  string
	farmerOID primitive.ObjectID
}

func newFixture(t *testing.T, initialStock int) *fixture {
	t.Helper()

	peternakRepo := newMockPeternakRepo()
	laporanRepo := newMockLaporanRepo()
	notifier := &mockNotifier{}

	p := &models.Peternak{
		NIK:                "3507112233440001",
		NamaLengkap:        "Pak Slamet",
		TanggalDaftar:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		JumlahTernakAwal:   initialStock,
		TargetPengembalian: 2,
		StatusSiklus:       models.SiklusMulai,
		StatusKinerja:      models.KinerjaBaru,
	}
	require.NoError(t, peternakRepo.Insert(context.Background(), p))

	svc := NewService(peternakRepo, laporanRepo, notifier, nil)
	svc.now = func() time.Time { return testNow }

	return &fixture{
		svc:       svc,
		peternak:  peternakRepo,
		laporan:   laporanRepo,
		notifier:  notifier,
		farmerID:  p.ID.Hex(),
		farmerOID: p.ID,
	}
}

func request(initial, born, died, sold int, date string) models.LaporanRequest {
	return models.LaporanRequest{
		JumlahTernakAwal: &initial,
		JumlahLahir:      &born,
		JumlahKematian:   &died,
		JumlahTerjual:    &sold,
		TanggalLaporan:   date,
	}
}

func TestCreateFirstLaporan(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	l, err := f.svc.Create(ctx, f.farmerID, request(5, 3, 0, 0, "2024-04-01"))
	require.NoError(t, err)

	assert.Equal(t, 1, l.ReportNumber)
	assert.Equal(t, 8, l.JumlahTernakSaatIni)
	assert.Equal(t, 2024, l.Year)

	p, err := f.peternak.FindByID(ctx, f.farmerID)
	require.NoError(t, err)
	assert.Equal(t, models.SiklusMulai, p.StatusSiklus)
	assert.Equal(t, models.KinerjaProgress, p.StatusKinerja)
	assert.Empty(t, f.notifier.completed)
}

func TestCreateRejectsUnknownPeternak(t *testing.T) {
	f := newFixture(t, 5)

	_, err := f.svc.Create(context.Background(), primitive.NewObjectID().Hex(), request(5, 0, 0, 0, "2024-04-01"))
	assert.ErrorIs(t, err, ErrPeternakNotFound)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	t.Run("blank quantity", func(t *testing.T) {
		req := request(5, 0, 0, 0, "2024-04-01")
		req.JumlahLahir = nil

		_, err := f.svc.Create(ctx, f.farmerID, req)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, siklus.FieldLahir)
	})

	t.Run("removals exceed availability", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.farmerID, request(5, 0, 3, 3, "2024-04-01"))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, siklus.FieldStok)
		assert.Len(t, verr.Fields, 1)
	})

	t.Run("future report date", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.farmerID, request(5, 0, 0, 0, "2024-06-16"))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, siklus.FieldTanggal)
	})
}

func TestCreateSequenceChecks(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.farmerID, request(5, 3, 0, 0, "2024-04-01"))
	require.NoError(t, err)

	t.Run("duplicate number", func(t *testing.T) {
		req := request(8, 0, 0, 0, "2024-05-01")
		one := 1
		req.ReportNumber = &one

		_, err := f.svc.Create(ctx, f.farmerID, req)
		var serr *SequenceError
		require.ErrorAs(t, err, &serr)
		assert.Contains(t, serr.Message, "sudah ada")
	})

	t.Run("gap ahead", func(t *testing.T) {
		req := request(8, 0, 0, 0, "2024-05-01")
		four := 4
		req.ReportNumber = &four

		_, err := f.svc.Create(ctx, f.farmerID, req)
		var serr *SequenceError
		require.ErrorAs(t, err, &serr)
		assert.Contains(t, serr.Message, "ke-3")
	})
}

func TestCreateEnforcesCarriedForwardStock(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.farmerID, request(5, 3, 0, 0, "2024-04-01"))
	require.NoError(t, err)

	// Report 1 ended at 8; report 2 must start there.
	_, err = f.svc.Create(ctx, f.farmerID, request(6, 2, 1, 1, "2024-05-01"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields[siklus.FieldTernakAwal], "(8)")

	l, err := f.svc.Create(ctx, f.farmerID, request(8, 2, 1, 1, "2024-05-01"))
	require.NoError(t, err)
	assert.Equal(t, 2, l.ReportNumber)
	assert.Equal(t, 8, l.JumlahTernakSaatIni)
}

func TestFullCycle(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	stock := 5
	for i := 1; i <= siklus.MaxReports; i++ {
		date := fmt.Sprintf("2023-%02d-01", i)
		l, err := f.svc.Create(ctx, f.farmerID, request(stock, 1, 0, 0, date))
		require.NoError(t, err)
		require.Equal(t, i, l.ReportNumber)
		stock = l.JumlahTernakSaatIni
	}

	p, err := f.peternak.FindByID(ctx, f.farmerID)
	require.NoError(t, err)
	assert.Equal(t, models.SiklusSelesai, p.StatusSiklus)
	assert.Equal(t, models.KinerjaProgress, p.StatusKinerja)
	require.NotNil(t, p.TanggalSelesai)
	assert.Equal(t, testNow, *p.TanggalSelesai)

	assert.Equal(t, []string{"3507112233440001"}, f.notifier.completed)

	// A 9th report is blocked.
	_, err = f.svc.Create(ctx, f.farmerID, request(stock, 0, 0, 0, "2024-06-10"))
	assert.ErrorIs(t, err, ErrCycleComplete)
}

func TestUpdateLaporan(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.farmerID, request(5, 3, 0, 0, "2024-04-01"))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.farmerID, request(8, 2, 1, 1, "2024-05-01"))
	require.NoError(t, err)

	t.Run("older report is immutable", func(t *testing.T) {
		_, err := f.svc.Update(ctx, first.ID.Hex(), request(5, 4, 0, 0, "2024-04-01"))
		assert.ErrorIs(t, err, ErrNotLatest)
	})

	t.Run("number cannot change", func(t *testing.T) {
		req := request(8, 2, 1, 1, "2024-05-01")
		three := 3
		req.ReportNumber = &three

		_, err := f.svc.Update(ctx, second.ID.Hex(), req)
		var serr *SequenceError
		require.ErrorAs(t, err, &serr)
	})

	t.Run("latest report re-derives stock", func(t *testing.T) {
		updated, err := f.svc.Update(ctx, second.ID.Hex(), request(8, 1, 2, 0, "2024-05-02"))
		require.NoError(t, err)
		assert.Equal(t, 2, updated.ReportNumber)
		assert.Equal(t, 7, updated.JumlahTernakSaatIni)
		assert.Equal(t, second.ID, updated.ID)
	})

	t.Run("carried-forward rule still applies", func(t *testing.T) {
		_, err := f.svc.Update(ctx, second.ID.Hex(), request(9, 1, 0, 0, "2024-05-02"))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, siklus.FieldTernakAwal)
	})
}

func TestDeleteLaporan(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.farmerID, request(5, 3, 0, 0, "2024-04-01"))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.farmerID, request(8, 0, 1, 0, "2024-05-01"))
	require.NoError(t, err)

	t.Run("only the latest report may go", func(t *testing.T) {
		assert.ErrorIs(t, f.svc.Delete(ctx, first.ID.Hex()), ErrNotLatest)
	})

	t.Run("deleting the latest rolls status back", func(t *testing.T) {
		require.NoError(t, f.svc.Delete(ctx, second.ID.Hex()))
		require.NoError(t, f.svc.Delete(ctx, first.ID.Hex()))

		p, err := f.peternak.FindByID(ctx, f.farmerID)
		require.NoError(t, err)
		assert.Equal(t, models.KinerjaBaru, p.StatusKinerja)
	})
}

func TestMutationsLockedAfterCompletion(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	var last *models.Laporan
	stock := 5
	for i := 1; i <= siklus.MaxReports; i++ {
		l, err := f.svc.Create(ctx, f.farmerID, request(stock, 1, 0, 0, fmt.Sprintf("2023-%02d-01", i)))
		require.NoError(t, err)
		stock = l.JumlahTernakSaatIni
		last = l
	}

	assert.ErrorIs(t, f.svc.Delete(ctx, last.ID.Hex()), ErrCycleLocked)
	_, err := f.svc.Update(ctx, last.ID.Hex(), request(12, 1, 0, 0, "2024-06-10"))
	assert.ErrorIs(t, err, ErrCycleLocked)
}

func TestPrefill(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	t.Run("fresh farmer", func(t *testing.T) {
		pre, err := f.svc.Prefill(ctx, f.farmerID)
		require.NoError(t, err)
		assert.Equal(t, 1, pre.NextReportNumber)
		assert.Equal(t, 5, pre.CarriedInitialStock)
		assert.Equal(t, 0, pre.ExistingReports)
		assert.True(t, pre.CanCreate)
	})

	t.Run("after a report", func(t *testing.T) {
		_, err := f.svc.Create(ctx, f.farmerID, request(5, 3, 0, 0, "2024-04-01"))
		require.NoError(t, err)

		pre, err := f.svc.Prefill(ctx, f.farmerID)
		require.NoError(t, err)
		assert.Equal(t, 2, pre.NextReportNumber)
		assert.Equal(t, 8, pre.CarriedInitialStock)
		assert.Equal(t, 1, pre.ExistingReports)
	})
}

func TestListByPeternakFilters(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	req := request(5, 3, 0, 0, "2023-11-01")
	req.DisplayPeriod = "Triwulan IV 2023"
	_, err := f.svc.Create(ctx, f.farmerID, req)
	require.NoError(t, err)

	req = request(8, 0, 0, 0, "2024-02-01")
	req.DisplayPeriod = "Triwulan I 2024"
	_, err = f.svc.Create(ctx, f.farmerID, req)
	require.NoError(t, err)

	all, err := f.svc.ListByPeternak(ctx, f.farmerID, mongodb.LaporanFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	only2024, err := f.svc.ListByPeternak(ctx, f.farmerID, mongodb.LaporanFilter{Year: 2024})
	require.NoError(t, err)
	require.Len(t, only2024, 1)
	assert.Equal(t, 2, only2024[0].ReportNumber)
}
