package main

import (
	"errors"
	"strings"
	"time"

	"simreda/models"
	"simreda/pkg/terbilang"

	"gorm.io/gorm"
)

// aktor is the authenticated caller of a lifecycle operation, threaded
// explicitly so audit fields (created_by, approved_by) are inputs rather
// than hidden session lookups.
type aktor struct {
	Profile models.Profile
	Role    string
}

// skrdInput carries the staff-editable content fields of a surat.
type skrdInput struct {
	NamaPemilik    string
	AlamatBangunan string
	KodeRekening   string
	JenisRetribusi string
	Jumlah         int64
	KepalaDinasID  uint
}

func validateSKRDInput(in skrdInput) error {
	switch {
	case strings.TrimSpace(in.NamaPemilik) == "":
		return validationErr("nama pemilik bangunan wajib diisi")
	case strings.TrimSpace(in.AlamatBangunan) == "":
		return validationErr("alamat bangunan wajib diisi")
	case strings.TrimSpace(in.KodeRekening) == "":
		return validationErr("kode rekening wajib diisi")
	case strings.TrimSpace(in.JenisRetribusi) == "":
		return validationErr("jenis retribusi wajib diisi")
	case in.Jumlah <= 0:
		return validationErr("jumlah harus lebih dari nol")
	case in.KepalaDinasID == 0:
		return validationErr("kepala dinas penanggung jawab wajib dipilih")
	}
	return nil
}

// applyIsi replaces the content fields and recomputes the cached terbilang.
func applyIsi(s *models.SKRD, in skrdInput) {
	s.NamaPemilik = in.NamaPemilik
	s.AlamatBangunan = in.AlamatBangunan
	s.KodeRekening = in.KodeRekening
	s.JenisRetribusi = in.JenisRetribusi
	s.Jumlah = in.Jumlah
	s.Terbilang = terbilang.Rupiah(in.Jumlah)
	s.KepalaDinasID = in.KepalaDinasID
}

// applyTerbit issues the surat: the approval flag, its derived fields and
// the verification link are set together so they are never observed apart.
func applyTerbit(s *models.SKRD, approverID uint, now time.Time, link string) {
	terbit := now
	jatuhTempo := now.AddDate(0, 0, 30)
	s.Status = true
	s.ApprovedByID = &approverID
	s.TanggalTerbit = &terbit
	s.JatuhTempo = &jatuhTempo
	s.BarcodeURL = &link
	s.CatatanRevisi = nil
}

// applyRevisi stores the revision note and defensively clears every
// issuance-derived field (normally already nil on a pending surat).
func applyRevisi(s *models.SKRD, alasan string) {
	s.Status = false
	s.CatatanRevisi = &alasan
	s.ApprovedByID = nil
	s.TanggalTerbit = nil
	s.JatuhTempo = nil
	s.BarcodeURL = nil
}

// applyPerbaikan is the staff resubmit: content replaced, note cleared,
// surat stays pending and must pass validasi again.
func applyPerbaikan(s *models.SKRD, in skrdInput) {
	applyIsi(s, in)
	s.CatatanRevisi = nil
	s.Status = false
}

func findSKRD(id uint) (*models.SKRD, error) {
	var s models.SKRD
	if err := db.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errTidakAda
		}
		return nil, err
	}
	return &s, nil
}

// findKepalaDinas resolves a profile id to an active kepala dinas.
func findKepalaDinas(id uint) (*models.Profile, error) {
	var p models.Profile
	err := db.Joins("JOIN users ON users.id = profiles.user_id").
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("profiles.id = ? AND profiles.active = ? AND roles.name = ?", id, true, models.RoleKepalaDinas).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationErr("kepala dinas tidak ditemukan atau tidak aktif")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// retryOnce runs fn and, when it reports a conflict (a concurrent creator
// won the nomor race), regenerates by running it once more.
func retryOnce(fn func() error) error {
	err := fn()
	if err != nil && errors.Is(err, errKonflik) {
		err = fn()
	}
	return err
}

// createSKRD allocates a nomor surat and persists a new pending surat.
func createSKRD(a aktor, in skrdInput, now time.Time) (*models.SKRD, error) {
	if err := validateSKRDInput(in); err != nil {
		return nil, err
	}
	if _, err := findKepalaDinas(in.KepalaDinasID); err != nil {
		return nil, err
	}
	var created *models.SKRD
	err := retryOnce(func() error {
		nomorSurat, err := nextNomorSurat(now)
		if err != nil {
			return err
		}
		s := &models.SKRD{
			NomorSurat:       nomorSurat,
			CreatedByID:      a.Profile.ID,
			Status:           false,
			StatusPembayaran: models.PembayaranBelum,
		}
		applyIsi(s, in)
		if err := db.Create(s).Error; err != nil {
			if isUniqueConstraintError(err) {
				return conflictErr("nomor surat %s sudah terpakai", nomorSurat)
			}
			return err
		}
		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// validasiSKRD issues a pending surat. Irreversible: no unapprove exists.
func validasiSKRD(a aktor, id uint, now time.Time) (*models.SKRD, error) {
	s, err := findSKRD(id)
	if err != nil {
		return nil, err
	}
	if s.KepalaDinasID != a.Profile.ID {
		return nil, forbiddenErr("hanya kepala dinas penanggung jawab yang dapat memvalidasi")
	}
	if s.Status {
		return nil, conflictErr("surat %s sudah terbit", s.NomorSurat)
	}
	applyTerbit(s, a.Profile.ID, now, verifyLinkFor(s.NomorSurat))
	if err := db.Save(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// mintaRevisi sends a pending surat back to its creator with a note.
func mintaRevisi(a aktor, id uint, alasan string) (*models.SKRD, error) {
	alasan = strings.TrimSpace(alasan)
	if alasan == "" {
		return nil, validationErr("alasan revisi wajib diisi")
	}
	s, err := findSKRD(id)
	if err != nil {
		return nil, err
	}
	if s.KepalaDinasID != a.Profile.ID {
		return nil, forbiddenErr("hanya kepala dinas penanggung jawab yang dapat meminta revisi")
	}
	if s.Status {
		return nil, conflictErr("surat %s sudah terbit dan tidak dapat direvisi", s.NomorSurat)
	}
	applyRevisi(s, alasan)
	if err := db.Save(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// perbaikiSKRD is the creator's resubmit after a revision request; it also
// serves plain edits while the surat is still pending.
func perbaikiSKRD(a aktor, id uint, in skrdInput) (*models.SKRD, error) {
	if err := validateSKRDInput(in); err != nil {
		return nil, err
	}
	s, err := findSKRD(id)
	if err != nil {
		return nil, err
	}
	if s.CreatedByID != a.Profile.ID {
		return nil, forbiddenErr("hanya staff pembuat yang dapat memperbaiki surat")
	}
	if s.Status {
		return nil, conflictErr("surat %s sudah terbit dan tidak dapat diubah", s.NomorSurat)
	}
	if _, err := findKepalaDinas(in.KepalaDinasID); err != nil {
		return nil, err
	}
	applyPerbaikan(s, in)
	if err := db.Save(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// hapusSKRD removes a surat permanently; once terbit it can never be deleted.
func hapusSKRD(a aktor, id uint) error {
	s, err := findSKRD(id)
	if err != nil {
		return err
	}
	if s.Status {
		return conflictErr("surat %s sudah terbit dan tidak dapat dihapus", s.NomorSurat)
	}
	if a.Role != models.RoleSuperAdmin && s.CreatedByID != a.Profile.ID {
		return forbiddenErr("hanya staff pembuat yang dapat menghapus surat")
	}
	return db.Delete(&models.SKRD{}, s.ID).Error
}

// tandaiLunas marks an issued surat paid. Calling it twice is a conflict,
// never a silent success.
func tandaiLunas(a aktor, id uint, buktiURL *string, now time.Time) (*models.SKRD, error) {
	s, err := findSKRD(id)
	if err != nil {
		return nil, err
	}
	if a.Role != models.RoleKepalaDinas && a.Role != models.RoleSuperAdmin {
		return nil, forbiddenErr("peran %s tidak dapat mencatat pelunasan", a.Role)
	}
	if !s.Status {
		return nil, validationErr("surat %s belum terbit", s.NomorSurat)
	}
	if s.StatusPembayaran == models.PembayaranLunas {
		return nil, conflictErr("surat %s sudah lunas", s.NomorSurat)
	}
	lunas := now
	s.StatusPembayaran = models.PembayaranLunas
	s.TanggalPelunasan = &lunas
	s.BuktiPembayaranURL = buktiURL
	if err := db.Save(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}
