package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Laporan is one periodic progress report in a farmer's 8-report cycle.
type Laporan struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PeternakID primitive.ObjectID `bson:"peternak_id" json:"peternakId"`

	// ReportNumber is unique per farmer and dense: reports always form
	// the sequence 1..k with k capped at 8.
	ReportNumber int `bson:"report_number" json:"reportNumber"`

	JumlahTernakAwal    int `bson:"jumlah_ternak_awal" json:"jumlahTernakAwal"`
	JumlahLahir         int `bson:"jumlah_lahir" json:"jumlahLahir"`
	JumlahKematian      int `bson:"jumlah_kematian" json:"jumlahKematian"`
	JumlahTerjual       int `bson:"jumlah_terjual" json:"jumlahTerjual"`
	JumlahTernakSaatIni int `bson:"jumlah_ternak_saat_ini" json:"jumlahTernakSaatIni"`

	Kendala    string `bson:"kendala,omitempty" json:"kendala,omitempty"`
	Solusi     string `bson:"solusi,omitempty" json:"solusi,omitempty"`
	Keterangan string `bson:"keterangan,omitempty" json:"keterangan,omitempty"`

	TanggalLaporan time.Time  `bson:"tanggal_laporan" json:"tanggalLaporan"`
	Year           int        `bson:"year" json:"year"`
	DisplayPeriod  string     `bson:"display_period,omitempty" json:"displayPeriod,omitempty"`
	StartDate      *time.Time `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate        *time.Time `bson:"end_date,omitempty" json:"endDate,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// LaporanPrefill carries the values the admin form pre-fills before a new
// report is written: the next permissible number and the stock carried
// forward from the previous report in the chain.
type LaporanPrefill struct {
	NextReportNumber    int  `json:"nextReportNumber"`
	CarriedInitialStock int  `json:"carriedInitialStock"`
	ExistingReports     int  `json:"existingReports"`
	CanCreate           bool `json:"canCreate"`
}
