package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"simreda/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Provisions an account from the command line, the same identity+profile
// pair the /admin/users endpoint creates. Useful before the first super
// admin can log in.
func main() {
	if len(os.Args) < 5 {
		fmt.Println("usage: go run ./cmd/create_user <username> <password> <role> <nama lengkap>")
		fmt.Println("roles: staff | kepala_dinas | super_admin")
		os.Exit(2)
	}
	username := os.Args[1]
	password := os.Args[2]
	roleName := os.Args[3]
	namaLengkap := strings.Join(os.Args[4:], " ")

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	var role models.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		log.Fatalf("role %s not found; run the server migrate command first", roleName)
	}

	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", username, existing.ID)
		os.Exit(0)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	rid := role.ID
	user := models.User{Username: username, HashedPassword: hpw, RoleID: &rid}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	prof := models.Profile{UserID: user.ID, NamaLengkap: namaLengkap}
	if err := db.Create(&prof).Error; err != nil {
		// identity without profile is an orphan; undo the create
		db.Unscoped().Delete(&user)
		log.Fatalf("failed to create profile, user rolled back: %v", err)
	}
	fmt.Printf("created %s user %s id=%d\n", roleName, username, user.ID)
}
