package main

import (
	"fmt"
	"strings"

	"simreda/models"

	"golang.org/x/crypto/bcrypt"
)

func Authenticate(username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

// CreateUserWithProfile provisions a login and its profile row together.
// If the profile insert fails the freshly created login is removed again,
// so no identity ever exists without a profile.
func CreateUserWithProfile(username, password, roleName, namaLengkap, nip, email, ttdBarcode string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationErr("username wajib diisi")
	}
	if len(password) < 6 { // basic password policy
		return nil, validationErr("password terlalu pendek (min 6)")
	}
	if strings.TrimSpace(namaLengkap) == "" {
		return nil, validationErr("nama lengkap wajib diisi")
	}
	var role models.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		return nil, validationErr("role %s tidak dikenal", roleName)
	}
	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, conflictErr("username %s sudah terdaftar", username)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	rid := role.ID
	user := models.User{Username: username, HashedPassword: hashedPassword, RoleID: &rid}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race condition after initial check
			return nil, conflictErr("username %s sudah terdaftar", username)
		}
		return nil, err
	}
	profile := models.Profile{
		UserID:      user.ID,
		NamaLengkap: namaLengkap,
		NIP:         nip,
		Email:       email,
		TTDBarcode:  ttdBarcode,
	}
	if err := db.Create(&profile).Error; err != nil {
		// roll back the identity to avoid an orphaned login
		db.Unscoped().Delete(&user)
		return nil, err
	}
	user.Profile = &profile
	return &user, nil
}

// UpdatePassword replaces a user's password hash.
func UpdatePassword(userID uint, newPassword string) error {
	if len(newPassword) < 6 {
		return validationErr("password terlalu pendek (min 6)")
	}
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return errTidakAda
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Model(&user).Update("hashed_password", hashed).Error
}
