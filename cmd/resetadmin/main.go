// Command resetadmin deletes every admin account and creates a single one.
//
//	ADMIN_PASSWORD=... go run ./cmd/resetadmin -username admin
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/zurpack/catalog-api/auth"
	"github.com/zurpack/catalog-api/config"
	"github.com/zurpack/catalog-api/database"
	"github.com/zurpack/catalog-api/models"
	"github.com/zurpack/catalog-api/repository"
	"gorm.io/gorm/logger"
)

func main() {
	username := flag.String("username", "admin", "username of the new admin")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "password of the new admin (default $ADMIN_PASSWORD)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	db, err := database.Open(cfg.Database, logger.Warn)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	admin, err := resetAdmin(context.Background(), repository.NewAdminRepository(db), *username, *password)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Println("✅ All admins removed, new admin created")
	log.Printf("Username: %s", admin.Username)
	log.Printf("ID: %s", admin.ID)
}

// resetAdmin replaces every admin with username and checks that the new
// account can log in.
func resetAdmin(ctx context.Context, admins *repository.AdminRepository, username, password string) (*models.Admin, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{Username: username, PasswordHash: hash}
	if err := admins.Reset(ctx, admin); err != nil {
		return nil, err
	}

	stored, err := admins.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(stored.PasswordHash, password) {
		return nil, errors.New("stored admin does not accept the new password")
	}
	return stored, nil
}
