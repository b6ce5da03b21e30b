package models

// PeternakRequest carries registration or edit data for a farmer.
type PeternakRequest struct {
	NIK                string `json:"nik" binding:"required"`
	NamaLengkap        string `json:"namaLengkap" binding:"required"`
	Alamat             string `json:"alamat"`
	NomorTelepon       string `json:"nomorTelepon"`
	JenisKelamin       string `json:"jenisKelamin"`
	TanggalDaftar      string `json:"tanggalDaftar"`
	JumlahTernakAwal   *int   `json:"jumlahTernakAwal"`
	TargetPengembalian *int   `json:"targetPengembalian"`
}

// LaporanRequest is the raw report form payload. Quantities are pointers so
// that a blank field can be told apart from an explicit zero; validation of
// presence and bounds happens in the siklus engine, not via binding tags.
type LaporanRequest struct {
	ReportNumber     *int   `json:"reportNumber"`
	JumlahTernakAwal *int   `json:"jumlahTernakAwal"`
	JumlahLahir      *int   `json:"jumlahLahir"`
	JumlahKematian   *int   `json:"jumlahKematian"`
	JumlahTerjual    *int   `json:"jumlahTerjual"`
	TanggalLaporan   string `json:"tanggalLaporan"`
	Kendala          string `json:"kendala"`
	Solusi           string `json:"solusi"`
	Keterangan       string `json:"keterangan"`
	DisplayPeriod    string `json:"displayPeriod"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
}

// RatingRequest assigns the terminal performance rating after a completed cycle.
type RatingRequest struct {
	StatusKinerja StatusKinerja `json:"statusKinerja" binding:"required"`
}
