package main

import (
	"net/http"
	"strconv"
	"time"

	"simreda/models"
	"simreda/pkg/rekap"

	"github.com/gin-gonic/gin"
)

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func serviceError(c *gin.Context, err error) {
	c.JSON(httpStatusFor(err), gin.H{"error": err.Error()})
}

type skrdRequest struct {
	NamaPemilik    string `json:"nama_pemilik" binding:"required"`
	AlamatBangunan string `json:"alamat_bangunan" binding:"required"`
	KodeRekening   string `json:"kode_rekening" binding:"required"`
	JenisRetribusi string `json:"jenis_retribusi" binding:"required"`
	Jumlah         int64  `json:"jumlah" binding:"required"`
	KepalaDinasID  uint   `json:"kepala_dinas_id" binding:"required"`
}

func (r skrdRequest) input() skrdInput {
	return skrdInput{
		NamaPemilik:    r.NamaPemilik,
		AlamatBangunan: r.AlamatBangunan,
		KodeRekening:   r.KodeRekening,
		JenisRetribusi: r.JenisRetribusi,
		Jumlah:         r.Jumlah,
		KepalaDinasID:  r.KepalaDinasID,
	}
}

// createSKRDHandler creates a pending surat for the authenticated staff.
func createSKRDHandler(c *gin.Context) {
	a, ok := aktorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req skrdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := createSKRD(a, req.input(), time.Now())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": s.ID, "nomor_surat": s.NomorSurat, "terbilang": s.Terbilang})
}

// listSKRDHandler lists surat scoped by role: staff see their own, kepala
// dinas those assigned to them, super_admin all.
func listSKRDHandler(c *gin.Context) {
	a, ok := aktorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var items []models.SKRD
	q := db.Model(&models.SKRD{}).Preload("CreatedBy").Preload("KepalaDinas")
	switch a.Role {
	case models.RoleStaff:
		q = q.Where("created_by_id = ?", a.Profile.ID)
	case models.RoleKepalaDinas:
		q = q.Where("kepala_dinas_id = ?", a.Profile.ID)
	}
	if err := q.Order("id desc").Limit(200).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func getSKRDHandler(c *gin.Context) {
	a, ok := aktorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var s models.SKRD
	if err := db.Preload("CreatedBy").Preload("KepalaDinas").Preload("ApprovedBy").First(&s, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "data tidak ditemukan"})
		return
	}
	if a.Role == models.RoleStaff && s.CreatedByID != a.Profile.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if a.Role == models.RoleKepalaDinas && s.KepalaDinasID != a.Profile.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// perbaikiSKRDHandler is the resubmit/edit of a pending surat by its creator.
func perbaikiSKRDHandler(c *gin.Context) {
	a, ok := aktorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req skrdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := perbaikiSKRD(a, id, req.input())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func hapusSKRDHandler(c *gin.Context) {
	a, ok := aktorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := hapusSKRD(a, id); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "surat dihapus"})
}

func validasiSKRDHandler(c *gin.Context) {
	a, ok := aktorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	s, err := validasiSKRD(a, id, time.Now())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func mintaRevisiHandler(c *gin.Context) {
	a, ok := aktorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Alasan string `json:"alasan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := mintaRevisi(a, id, req.Alasan)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// pelunasanHandler marks an issued surat paid, optionally attaching an
// uploaded proof. The proof is stored before the row update; a failure in
// between leaves an orphaned file (accepted, no cleanup).
func pelunasanHandler(c *gin.Context) {
	a, ok := aktorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	// fail fast before touching the blob store
	s, err := findSKRD(id)
	if err != nil {
		serviceError(c, err)
		return
	}
	if !s.Status {
		c.JSON(http.StatusBadRequest, gin.H{"error": "surat belum terbit"})
		return
	}
	if s.StatusPembayaran == models.PembayaranLunas {
		c.JSON(http.StatusConflict, gin.H{"error": "surat sudah lunas"})
		return
	}

	var buktiURL *string
	now := time.Now()
	if file, err := c.FormFile("bukti"); err == nil {
		if file.Size > maxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
			return
		}
		url, err := saveUploadedFile(c, file, bucketBukti, storedFileName(s.ID, file.Filename, now))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
		buktiURL = &url
	}
	updated, err := tandaiLunas(a, id, buktiURL, now)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// verifyHandler is the public resolver behind the QR code. It prefers the
// nomor surat and falls back to the row id, and always reflects current
// state rather than a snapshot frozen at issuance.
func verifyHandler(c *gin.Context) {
	var s models.SKRD
	q := db.Model(&models.SKRD{})
	if nomorSurat := c.Query("nomor_surat"); nomorSurat != "" {
		q = q.Where("nomor_surat = ?", nomorSurat)
	} else if id := c.Query("id"); id != "" {
		q = q.Where("id = ?", id)
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nomor_surat or id required"})
		return
	}
	if err := q.First(&s).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "data tidak ditemukan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"nomor_surat":       s.NomorSurat,
		"nama_pemilik":      s.NamaPemilik,
		"alamat_bangunan":   s.AlamatBangunan,
		"jumlah":            s.Jumlah,
		"terbilang":         s.Terbilang,
		"status":            s.Status,
		"tanggal_terbit":    s.TanggalTerbit,
		"jatuh_tempo":       s.JatuhTempo,
		"status_pembayaran": s.StatusPembayaran,
		"tanggal_pelunasan": s.TanggalPelunasan,
	})
}

// rekapitulasiHandler recomputes the dashboard statistics on demand from
// the full record set.
func rekapitulasiHandler(c *gin.Context) {
	var rows []rekap.Baris
	err := db.Model(&models.SKRD{}).
		Select("status, status_pembayaran, jumlah, tanggal_pelunasan").
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rekap.Hitung(rows, rekap.TargetPendapatan))
}
