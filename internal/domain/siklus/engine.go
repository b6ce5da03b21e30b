// Package siklus implements the report-continuation rules of the gaduh
// program: which report number comes next, how stock carries forward from
// one report to the next, and whether a proposed report is acceptable.
// Everything here is pure; persistence and HTTP concerns live elsewhere.
package siklus

import (
	"fmt"
	"time"

	"github.com/sidomulyo-dev/gaduh/internal/domain/models"
)

const (
	// MaxReports caps the cycle at 8 quarterly reports (2 years).
	MaxReports = 8

	// DefaultInitialStock seeds report 1 when the registration record
	// carries no initial stock count.
	DefaultInitialStock = 5

	// DateLayout is the wire format for report dates.
	DateLayout = "2006-01-02"
)

// NextReportNumber returns the next permissible report number for a farmer.
// Callers must check CanCreateReport before acting on a result above MaxReports.
func NextReportNumber(existing []models.Laporan) int {
	highest := 0
	for _, l := range existing {
		if l.ReportNumber > highest {
			highest = l.ReportNumber
		}
	}
	return highest + 1
}

// CarriedForwardInitialStock returns the initial stock for the next report:
// the ending stock of the highest-numbered existing report, or the stock
// recorded at registration when no report exists yet. Selection is by report
// number, not by report date or edit time.
func CarriedForwardInitialStock(existing []models.Laporan, registeredInitial int) int {
	if len(existing) == 0 {
		if registeredInitial > 0 {
			return registeredInitial
		}
		return DefaultInitialStock
	}

	latest := existing[0]
	for _, l := range existing[1:] {
		if l.ReportNumber > latest.ReportNumber {
			latest = l
		}
	}
	return latest.JumlahTernakSaatIni
}

// DeriveCurrentStock computes the ending stock for a report period,
// floored at zero so malformed input can never produce a negative herd.
func DeriveCurrentStock(initial, born, died, sold int) int {
	current := initial + born - died - sold
	if current < 0 {
		return 0
	}
	return current
}

// CanCreateReport reports whether a new report may be started: the farmer
// must have registration data to seed the chain and the cycle must not be
// exhausted.
func CanCreateReport(p *models.Peternak, existing []models.Laporan) bool {
	if p == nil {
		return false
	}
	return len(existing) < MaxReports
}

// SequenceResult is the outcome of a report-number sequence check.
type SequenceResult struct {
	Valid   bool
	Message string
}

// ValidateSequence enforces the dense, gap-free numbering invariant at the
// point of creation: no duplicate numbers, and report N requires report N-1.
func ValidateSequence(proposed int, existing []models.Laporan) SequenceResult {
	if proposed < 1 {
		return SequenceResult{Message: "nomor laporan harus dimulai dari 1"}
	}

	seen := make(map[int]bool, len(existing))
	for _, l := range existing {
		seen[l.ReportNumber] = true
	}

	if seen[proposed] {
		return SequenceResult{Message: fmt.Sprintf("laporan ke-%d sudah ada", proposed)}
	}
	if proposed > 1 && !seen[proposed-1] {
		return SequenceResult{Message: fmt.Sprintf("laporan ke-%d harus diselesaikan terlebih dahulu", proposed-1)}
	}
	return SequenceResult{Valid: true}
}

// Field keys used in validation error maps. The cross-field stock rule gets
// its own key so the form can render it apart from any single input.
const (
	FieldTernakAwal = "jumlahTernakAwal"
	FieldLahir      = "jumlahLahir"
	FieldKematian   = "jumlahKematian"
	FieldTerjual    = "jumlahTerjual"
	FieldTanggal    = "tanggalLaporan"
	FieldStok       = "stok"
)

// ReportInput is the raw form payload the engine validates. Quantities are
// pointers so a blank field is distinguishable from an explicit zero.
type ReportInput struct {
	JumlahTernakAwal *int
	JumlahLahir      *int
	JumlahKematian   *int
	JumlahTerjual    *int
	TanggalLaporan   string
}

// ValidationResult maps violated fields to user-facing messages. All rules
// are evaluated together so every problem surfaces in one pass.
type ValidationResult struct {
	Valid  bool
	Errors map[string]string
}

// ValidateReportInput checks every field rule plus the cross-field stock
// bound. The report date must not fall after today's calendar date; the
// comparison ignores time of day. The function never mutates anything.
func ValidateReportInput(in ReportInput, now time.Time) ValidationResult {
	errs := make(map[string]string)

	checkQuantity(errs, FieldTernakAwal, in.JumlahTernakAwal)
	checkQuantity(errs, FieldLahir, in.JumlahLahir)
	checkQuantity(errs, FieldKematian, in.JumlahKematian)
	checkQuantity(errs, FieldTerjual, in.JumlahTerjual)

	if errs[FieldTernakAwal] == "" && errs[FieldLahir] == "" &&
		errs[FieldKematian] == "" && errs[FieldTerjual] == "" {
		available := *in.JumlahTernakAwal + *in.JumlahLahir
		removed := *in.JumlahKematian + *in.JumlahTerjual
		if removed > available {
			errs[FieldStok] = fmt.Sprintf(
				"jumlah kematian dan terjual (%d) melebihi stok awal ditambah kelahiran (%d)",
				removed, available)
		}
	}

	if in.TanggalLaporan == "" {
		errs[FieldTanggal] = "tanggal laporan wajib diisi"
	} else if reportDate, err := time.ParseInLocation(DateLayout, in.TanggalLaporan, now.Location()); err != nil {
		errs[FieldTanggal] = "format tanggal tidak valid, gunakan YYYY-MM-DD"
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if reportDate.After(today) {
			errs[FieldTanggal] = "tanggal laporan tidak boleh melebihi hari ini"
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func checkQuantity(errs map[string]string, field string, value *int) {
	switch {
	case value == nil:
		errs[field] = "wajib diisi"
	case *value < 0:
		errs[field] = "tidak boleh negatif"
	}
}
