package main

import (
	"log"
	"os"
	"strings"

	"simreda/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	// Ensure the roles master table exists first and seed it so users FK can be applied safely.
	if shouldMigrate {
		if err := db.AutoMigrate(&models.Role{}); err != nil {
			log.Printf("migration warning (roles): %v", err)
		}
	}
	seedRoles()

	// Now migrate the rest (users will get FK to roles)
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.Profile{}); err != nil {
			log.Printf("migration warning (profiles): %v", err)
		}
		if err := db.AutoMigrate(&models.SKRD{}); err != nil {
			log.Printf("migration warning (skrd): %v", err)
		}
		if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
			log.Printf("migration warning (refresh_tokens): %v", err)
		}
	}

	seedDB()
}

func seedRoles() {
	roles := []models.Role{
		{Name: models.RoleStaff, Description: "membuat dan merevisi SKRD"},
		{Name: models.RoleKepalaDinas, Description: "memvalidasi SKRD dan meminta revisi"},
		{Name: models.RoleSuperAdmin, Description: "mengelola akun pengguna"},
	}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}
}

func seedDB() {
	seedRoles()

	// Check if the bootstrap super admin exists
	var count int64
	db.Model(&models.User{}).Where("username = ?", "superadmin").Count(&count)
	if count == 0 {
		var role models.Role
		if err := db.Where("name = ?", models.RoleSuperAdmin).First(&role).Error; err != nil {
			log.Printf("failed to find super_admin role: %v", err)
		}
		rid := role.ID
		admin := models.User{
			Username: "superadmin",
			RoleID:   &rid,
		}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("superadmin123"), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		db.Create(&admin)
		log.Println("Seeded super admin user: username=superadmin, password=superadmin123")
	}
	// Ensure the super admin has a one-to-one profile
	var admin models.User
	if err := db.Where("username = ?", "superadmin").First(&admin).Error; err != nil {
		log.Printf("failed to find super admin after seeding: %v", err)
		return
	}
	var pcount int64
	db.Model(&models.Profile{}).Where("user_id = ?", admin.ID).Count(&pcount)
	if pcount == 0 {
		profile := models.Profile{UserID: admin.ID, NamaLengkap: "Super Admin", Email: "superadmin@example.com"}
		if err := db.Create(&profile).Error; err != nil {
			log.Printf("failed to create profile for super admin: %v", err)
		} else {
			log.Println("Seeded super admin profile for user id:", admin.ID)
		}
	}
	// Ensure upload buckets exist
	ensureUploadBase()
}

// isUniqueConstraintError reports whether err is a unique-violation from the store.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
