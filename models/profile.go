package models

import "time"

// Profile represents an employee's profile (one-to-one with User).
// Accounts are never hard-deleted; deactivation toggles Active instead.
type Profile struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`
	Active    bool       `gorm:"default:true;not null" json:"is_active"`
	UserID    uint       `gorm:"uniqueIndex;not null"` // one-to-one relation
	User      User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	// NamaLengkap is mandatory; NIP is the national employee id.
	NamaLengkap string `gorm:"size:255;not null" json:"nama_lengkap"`
	NIP         string `gorm:"size:64" json:"nip"`
	Email       string `gorm:"size:255" json:"email"`
	// TTDBarcode is the public URL of the uploaded signature barcode
	// image, required in practice for kepala_dinas accounts.
	TTDBarcode string `gorm:"size:512" json:"ttd_barcode"`
}
