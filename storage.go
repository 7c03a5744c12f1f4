package main

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Blob buckets. Each bucket is a subdirectory of the upload base served
// under the public/ path prefix.
const (
	bucketBukti = "bukti_pembayaran"
	bucketTTD   = "ttd_barcode"
)

const maxUploadSize = 5 * 1024 * 1024

// uploadBaseDir returns the base directory for local uploads (configurable via UPLOAD_BASE env)
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}

// ensureUploadBase creates the base uploads directory and the bucket dirs.
func ensureUploadBase() {
	for _, bucket := range []string{bucketBukti, bucketTTD} {
		dir := filepath.Join(uploadBaseDir(), bucket)
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("failed to create upload dir %s: %v", dir, err)
		}
	}
}

// publicBaseURL is the origin prepended to store paths and embedded in
// verification links (PUBLIC_BASE_URL env).
func publicBaseURL() string {
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8081"
}

// saveUploadedFile stores file under bucket/name and returns the public URL.
// The row update that usually follows is a separate write; a failure there
// leaves the stored file orphaned (accepted, no cleanup).
func saveUploadedFile(c *gin.Context, file *multipart.FileHeader, bucket, name string) (string, error) {
	fullPath := filepath.Join(uploadBaseDir(), bucket, name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		return "", err
	}
	return publicBaseURL() + "/public/" + bucket + "/" + name, nil
}

// storedFileName derives a collision-safe stored name from the owning row id,
// the upload time and a random component, keeping the original extension.
func storedFileName(id uint, original string, now time.Time) string {
	return fmt.Sprintf("%d_%d_%s%s", id, now.Unix(), uuid.NewString()[:8], filepath.Ext(original))
}

// verifyLinkFor builds the stable public verification URL embedded in the
// surat at issuance. Scanning it must resolve to the live status, so only
// the nomor surat is encoded, never a snapshot.
func verifyLinkFor(nomorSurat string) string {
	return publicBaseURL() + "/verify?nomor_surat=" + url.QueryEscape(nomorSurat)
}
