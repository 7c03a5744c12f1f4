package models

import "time"

// Payment status values stored on an SKRD row.
const (
	PembayaranBelum = "BELUM"
	PembayaranLunas = "LUNAS"
)

// SKRD is a Surat Ketetapan Retribusi Daerah, the levy assessment
// certificate moving through the create -> validasi/revisi -> pelunasan
// workflow.
//
// Status=false means the surat is pending (possibly carrying a revision
// note); Status=true means it has been issued by the kepala dinas. The
// issuance-derived fields (TanggalTerbit, JatuhTempo, BarcodeURL,
// ApprovedByID) are non-nil exactly when Status is true.
type SKRD struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	NomorSurat     string `gorm:"size:128;not null;uniqueIndex" json:"nomor_surat"`
	NamaPemilik    string `gorm:"size:255;not null" json:"nama_pemilik"`
	AlamatBangunan string `gorm:"size:512;not null" json:"alamat_bangunan"`
	KodeRekening   string `gorm:"size:64;not null" json:"kode_rekening"`
	JenisRetribusi string `gorm:"type:text;not null" json:"jenis_retribusi"`
	// Jumlah is the principal amount in whole Rupiah; Terbilang caches
	// its spell-out and is recomputed whenever Jumlah changes.
	Jumlah    int64  `gorm:"not null" json:"jumlah"`
	Terbilang string `gorm:"size:512;not null" json:"terbilang"`

	KepalaDinasID uint     `gorm:"index;not null" json:"kepala_dinas_id"`
	KepalaDinas   *Profile `gorm:"foreignKey:KepalaDinasID" json:"kepala_dinas,omitempty"`
	CreatedByID   uint     `gorm:"index;not null" json:"created_by_id"`
	CreatedBy     *Profile `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`

	Status        bool       `gorm:"default:false;not null;index" json:"status"`
	ApprovedByID  *uint      `gorm:"index" json:"approved_by_id"`
	ApprovedBy    *Profile   `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
	TanggalTerbit *time.Time `json:"tanggal_terbit"`
	JatuhTempo    *time.Time `json:"jatuh_tempo"`
	CatatanRevisi *string    `gorm:"size:1024" json:"catatan_revisi"`
	BarcodeURL    *string    `gorm:"size:512" json:"barcode_url"`

	StatusPembayaran   string     `gorm:"size:16;default:'BELUM';not null" json:"status_pembayaran"`
	TanggalPelunasan   *time.Time `json:"tanggal_pelunasan"`
	BuktiPembayaranURL *string    `gorm:"size:512" json:"bukti_pembayaran_url"`
}
