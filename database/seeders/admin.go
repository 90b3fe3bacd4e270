package seeders

import (
	"errors"
	"os"

	"courier-backend/constants"
	"courier-backend/logger"
	userModel "courier-backend/models/user"
	"courier-backend/utils"

	"gorm.io/gorm"
)

// SeedDefaultAdmin ensures one admin account exists so a fresh install can
// be administered. Idempotent; credentials come from the environment with
// development fallbacks.
func SeedDefaultAdmin(db *gorm.DB) {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@courier.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	var existing userModel.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check for existing admin account", err)
		return
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash admin password", err)
		return
	}

	admin := userModel.User{
		Name:     "Administrator",
		Email:    email,
		Phone:    "0000000000",
		Password: hashed,
		Role:     constants.RoleAdmin,
		Status:   "active",
	}
	if err := db.Create(&admin).Error; err != nil {
		logger.Error("Failed to seed admin account", err)
		return
	}
	logger.Success("Seeded default admin account: " + email)
}
