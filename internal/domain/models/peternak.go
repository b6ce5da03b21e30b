package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusSiklus tracks the cycle axis of a farmer's lifecycle.
type StatusSiklus string

const (
	SiklusMulai   StatusSiklus = "Mulai"
	SiklusSelesai StatusSiklus = "Selesai"
)

// StatusKinerja tracks the performance axis of a farmer's lifecycle.
// Baru and Progress are automatic; Bagus, Biasa and Kurang are terminal
// ratings assigned manually by an administrator after the cycle completes.
type StatusKinerja string

const (
	KinerjaBaru     StatusKinerja = "Baru"
	KinerjaProgress StatusKinerja = "Progress"
	KinerjaBagus    StatusKinerja = "Bagus"
	KinerjaBiasa    StatusKinerja = "Biasa"
	KinerjaKurang   StatusKinerja = "Kurang"
)

// Terminal reports whether the rating is a final administrator-assigned value.
func (s StatusKinerja) Terminal() bool {
	switch s {
	case KinerjaBagus, KinerjaBiasa, KinerjaKurang:
		return true
	}
	return false
}

// Peternak is a farmer participating in the livestock-loan program.
type Peternak struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NIK                string             `bson:"nik" json:"nik"`
	NamaLengkap        string             `bson:"nama_lengkap" json:"namaLengkap"`
	Alamat             string             `bson:"alamat" json:"alamat"`
	NomorTelepon       string             `bson:"nomor_telepon" json:"nomorTelepon"`
	JenisKelamin       string             `bson:"jenis_kelamin" json:"jenisKelamin"`
	TanggalDaftar      time.Time          `bson:"tanggal_daftar" json:"tanggalDaftar"`
	JumlahTernakAwal   int                `bson:"jumlah_ternak_awal" json:"jumlahTernakAwal"`
	TargetPengembalian int                `bson:"target_pengembalian" json:"targetPengembalian"`
	StatusSiklus       StatusSiklus       `bson:"status_siklus" json:"statusSiklus"`
	StatusKinerja      StatusKinerja      `bson:"status_kinerja" json:"statusKinerja"`
	TanggalSelesai     *time.Time         `bson:"tanggal_selesai,omitempty" json:"tanggalSelesai,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updatedAt"`

	// JumlahLaporan is recomputed from the laporan collection at read time
	// and is never persisted on the farmer document.
	JumlahLaporan int `bson:"-" json:"jumlahLaporan"`
}
