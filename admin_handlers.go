package main

import (
	"net/http"
	"strings"
	"time"

	"simreda/models"

	"github.com/gin-gonic/gin"
)

// listUsersHandler returns all accounts for the super-admin dashboard,
// optionally filtered by a search term over email, name and NIP.
func listUsersHandler(c *gin.Context) {
	var profiles []models.Profile
	q := db.Model(&models.Profile{}).Preload("User").Preload("User.Role")
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(email) LIKE ? OR lower(nama_lengkap) LIKE ? OR lower(nip) LIKE ?", like, like, like)
	}
	if err := q.Order("id asc").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, gin.H{
			"user_id":      p.UserID,
			"username":     p.User.Username,
			"nama_lengkap": p.NamaLengkap,
			"nip":          p.NIP,
			"email":        p.Email,
			"role":         p.User.Role.Name,
			"is_active":    p.Active,
			"ttd_barcode":  p.TTDBarcode,
		})
	}
	c.JSON(http.StatusOK, out)
}

// createUserHandler provisions a login plus profile in one action.
func createUserHandler(c *gin.Context) {
	var req struct {
		Username    string `json:"username" binding:"required"`
		Password    string `json:"password" binding:"required"`
		Role        string `json:"role" binding:"required"`
		NamaLengkap string `json:"nama_lengkap" binding:"required"`
		NIP         string `json:"nip"`
		Email       string `json:"email"`
		TTDBarcode  string `json:"ttd_barcode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := CreateUserWithProfile(req.Username, req.Password, req.Role, req.NamaLengkap, req.NIP, req.Email, req.TTDBarcode)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user berhasil dibuat", "user_id": user.ID})
}

// updateUserHandler edits a profile from a multipart form so the signature
// barcode image can ride along; an uploaded file replaces the stored URL.
func updateUserHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user tidak ditemukan"})
		return
	}
	var profile models.Profile
	if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile tidak ditemukan"})
		return
	}

	if v := c.PostForm("nama_lengkap"); v != "" {
		profile.NamaLengkap = v
	}
	if v, ok := c.GetPostForm("nip"); ok {
		profile.NIP = v
	}
	if v, ok := c.GetPostForm("email"); ok {
		profile.Email = v
	}
	if roleName := c.PostForm("role"); roleName != "" {
		var role models.Role
		if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role tidak dikenal"})
			return
		}
		rid := role.ID
		if err := db.Model(&user).Update("role_id", rid).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update role failed"})
			return
		}
	}
	if file, err := c.FormFile("ttd_barcode"); err == nil {
		if file.Size > maxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
			return
		}
		url, err := saveUploadedFile(c, file, bucketTTD, storedFileName(profile.ID, file.Filename, time.Now()))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
		profile.TTDBarcode = url
	}
	if err := db.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func updatePasswordHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := UpdatePassword(id, req.NewPassword); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password berhasil diperbarui"})
}

// toggleActiveHandler flips an account's active flag; accounts are never
// hard-deleted.
func toggleActiveHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var profile models.Profile
	if err := db.Where("user_id = ?", id).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile tidak ditemukan"})
		return
	}
	if err := db.Model(&profile).Update("active", *req.Active).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id, "is_active": *req.Active})
}
