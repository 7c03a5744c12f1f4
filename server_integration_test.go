package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	initDB()
	tmp := t.TempDir()
	_ = os.Setenv("UPLOAD_BASE", tmp)
	seedDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func loginAs(t *testing.T, r http.Handler, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp := performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(body), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login %s failed status=%d body=%s", username, resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token for %s: %+v", username, loginResp)
	}
	return token
}

func provision(t *testing.T, r http.Handler, adminToken, username, role, nama string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username":     username,
		"password":     "rahasia1",
		"role":         role,
		"nama_lengkap": nama,
		"nip":          "19800101 200001 1 001",
		"email":        username + "@example.com",
	})
	resp := performRequest(r, http.MethodPost, "/admin/users", bytes.NewBuffer(body), adminToken, "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("provision %s failed status=%d body=%s", username, resp.Code, resp.Body.String())
	}
}

func TestLifecycleFlow(t *testing.T) {
	r := setupTestServer(t)
	suffix := time.Now().UnixNano()

	adminToken := loginAs(t, r, "superadmin", "superadmin123")
	staffName := fmt.Sprintf("staff%d", suffix)
	kadisName := fmt.Sprintf("kadis%d", suffix)
	kadisNama := fmt.Sprintf("Kadis Uji %d", suffix)
	provision(t, r, adminToken, staffName, "staff", "Staff Uji")
	provision(t, r, adminToken, kadisName, "kepala_dinas", kadisNama)
	staffToken := loginAs(t, r, staffName, "rahasia1")
	kadisToken := loginAs(t, r, kadisName, "rahasia1")

	// resolve the kadis profile id for the create payload
	resp := performRequest(r, http.MethodGet, "/kepala-dinas", nil, staffToken, "")
	if resp.Code != 200 {
		t.Fatalf("list kepala dinas failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var kadisList []map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &kadisList)
	var kadisID float64
	for _, k := range kadisList {
		if k["nama_lengkap"] == kadisNama {
			kadisID = k["id"].(float64)
		}
	}
	if kadisID == 0 {
		t.Fatalf("kadis profile not listed: %s", resp.Body.String())
	}

	// 1. Staff creates a surat
	createBody, _ := json.Marshal(map[string]any{
		"nama_pemilik":    "Budi",
		"alamat_bangunan": "Jl. Trans Sulawesi No. 1",
		"kode_rekening":   "4101",
		"jenis_retribusi": "Retribusi PBG",
		"jumlah":          3000000,
		"kepala_dinas_id": kadisID,
	})
	resp = performRequest(r, http.MethodPost, "/skrd", bytes.NewBuffer(createBody), staffToken, "application/json")
	if resp.Code != 200 {
		t.Fatalf("create skrd failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var created map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &created)
	id := int(created["id"].(float64))
	nomorSurat, _ := created["nomor_surat"].(string)
	if !strings.HasPrefix(nomorSurat, "SKRD-PBG/PERKIMTAN-GW/") {
		t.Fatalf("unexpected nomor surat %q", nomorSurat)
	}
	if created["terbilang"] != "tiga juta rupiah" {
		t.Fatalf("terbilang = %v", created["terbilang"])
	}

	// 2. Kadis requests a revision
	revisiBody, _ := json.Marshal(map[string]string{"alasan": "alamat salah"})
	resp = performRequest(r, http.MethodPost, fmt.Sprintf("/skrd/%d/revisi", id), bytes.NewBuffer(revisiBody), kadisToken, "application/json")
	if resp.Code != 200 {
		t.Fatalf("revisi failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 3. Staff resubmits with a corrected address
	resubmitBody, _ := json.Marshal(map[string]any{
		"nama_pemilik":    "Budi",
		"alamat_bangunan": "Jl. Trans Sulawesi No. 2",
		"kode_rekening":   "4101",
		"jenis_retribusi": "Retribusi PBG",
		"jumlah":          3000000,
		"kepala_dinas_id": kadisID,
	})
	resp = performRequest(r, http.MethodPut, fmt.Sprintf("/skrd/%d", id), bytes.NewBuffer(resubmitBody), staffToken, "application/json")
	if resp.Code != 200 {
		t.Fatalf("resubmit failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var resubmitted map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &resubmitted)
	if resubmitted["catatan_revisi"] != nil {
		t.Fatalf("catatan revisi not cleared: %v", resubmitted["catatan_revisi"])
	}

	// 4. Pelunasan before terbit must be rejected
	resp = performRequest(r, http.MethodPost, fmt.Sprintf("/skrd/%d/pelunasan", id), nil, kadisToken, "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for pelunasan of pending surat, got %d", resp.Code)
	}

	// 5. Kadis validates; derived fields must be set
	resp = performRequest(r, http.MethodPost, fmt.Sprintf("/skrd/%d/validasi", id), nil, kadisToken, "")
	if resp.Code != 200 {
		t.Fatalf("validasi failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var issued map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &issued)
	if issued["status"] != true || issued["tanggal_terbit"] == nil || issued["jatuh_tempo"] == nil || issued["barcode_url"] == nil {
		t.Fatalf("issuance fields missing: %s", resp.Body.String())
	}

	// 6. Second validasi is a conflict
	resp = performRequest(r, http.MethodPost, fmt.Sprintf("/skrd/%d/validasi", id), nil, kadisToken, "")
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for double validasi, got %d", resp.Code)
	}

	// 7. Delete after terbit is a conflict
	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/skrd/%d", id), nil, staffToken, "")
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for delete of issued surat, got %d", resp.Code)
	}

	// 8. Pelunasan succeeds once, conflicts the second time
	resp = performRequest(r, http.MethodPost, fmt.Sprintf("/skrd/%d/pelunasan", id), nil, kadisToken, "")
	if resp.Code != 200 {
		t.Fatalf("pelunasan failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var paid map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &paid)
	if paid["status_pembayaran"] != "LUNAS" || paid["tanggal_pelunasan"] == nil {
		t.Fatalf("pelunasan fields: %s", resp.Body.String())
	}
	resp = performRequest(r, http.MethodPost, fmt.Sprintf("/skrd/%d/pelunasan", id), nil, kadisToken, "")
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for double pelunasan, got %d", resp.Code)
	}

	// 9. Public verify resolves by nomor surat without a token
	resp = performRequest(r, http.MethodGet, "/verify?nomor_surat="+strings.ReplaceAll(nomorSurat, "/", "%2F"), nil, "", "")
	if resp.Code != 200 {
		t.Fatalf("verify failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var snapshot map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &snapshot)
	if snapshot["status_pembayaran"] != "LUNAS" {
		t.Fatalf("verify reflects stale state: %s", resp.Body.String())
	}

	// 10. Unknown nomor is a distinct not-found
	resp = performRequest(r, http.MethodGet, "/verify?nomor_surat=SKRD-PBG%2FPERKIMTAN-GW%2F999%2FXII%2F1999", nil, "", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown nomor, got %d", resp.Code)
	}

	// 11. Rekapitulasi recomputes on demand
	resp = performRequest(r, http.MethodGet, "/rekapitulasi", nil, kadisToken, "")
	if resp.Code != 200 {
		t.Fatalf("rekapitulasi failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 12. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/skrd", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list, got %d", unauth.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
