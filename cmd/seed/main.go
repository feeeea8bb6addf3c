// Package main seeds the database with the bootstrap records the platform
// needs before it can take traffic: an admin account and the platform-wide
// default fee configuration.
package main

import (
	"context"
	"errors"
	"log"

	"gatepass/internal/config"
	"gatepass/internal/models"
	"gatepass/internal/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	config.LoadEnv()
	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	seedAdmin()
	seedDefaultFeeConfig()
}

func seedAdmin() {
	email := config.GetEnv("ADMIN_EMAIL", "admin@gatepass.local")
	password := config.GetEnv("ADMIN_PASSWORD", "")
	if password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var existing models.User
	err := repositories.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("Admin %s already exists, skipping", email)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check for existing admin: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := models.User{
		Email:    email,
		Password: string(hashed),
		Name:     "Platform Admin",
		Role:     "admin",
		Status:   "active",
	}
	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	log.Printf("Created admin %s", email)
}

func seedDefaultFeeConfig() {
	feeRepo := repositories.NewFeeConfigRepository(repositories.DB, repositories.CacheService)
	ctx := context.Background()

	if _, err := feeRepo.GetDefault(ctx); err == nil {
		log.Println("Platform default fee configuration already exists, skipping")
		return
	}

	cfg := &models.FeeConfiguration{
		FeeType:       config.GetEnv("PLATFORM_FEE_TYPE", models.FeeTypeHigherOfBoth),
		FlatFeeAmount: float64(config.GetIntEnv("PLATFORM_FLAT_FEE_CENTS", 200)) / 100,
		PercentageFee: float64(config.GetIntEnv("PLATFORM_PERCENTAGE_FEE", 5)),
		Active:        true,
	}
	if err := feeRepo.Upsert(ctx, cfg); err != nil {
		log.Fatalf("Failed to seed platform default fee configuration: %v", err)
	}
	log.Printf("Seeded platform default fee configuration: %s flat=%.2f pct=%.1f",
		cfg.FeeType, cfg.FlatFeeAmount, cfg.PercentageFee)
}
