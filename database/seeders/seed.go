// Package seeders populates a fresh database with a usable baseline:
// one admin account and a small service catalog.
package seeders

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/config"
	"github.com/shashiranjanraj/medicore/pkg/auth"
)

// Run executes every seeder. Seeders are idempotent: rows already present
// are left untouched.
func Run(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := seedCatalog(db); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}

func seedAdmin(db *gorm.DB) error {
	email := config.Get("ADMIN_EMAIL", "admin@medicore.health")

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "change-me-now"))
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "Medicore Admin",
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	return db.Create(&admin).Error
}

func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Department{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	departments := []models.Department{
		{Name: "Cardiology", Slug: "cardiology", Description: "Heart and vascular care"},
		{Name: "Radiology", Slug: "radiology", Description: "Imaging and diagnostics"},
		{Name: "Pathology", Slug: "pathology", Description: "Laboratory medicine"},
	}
	if err := db.Create(&departments).Error; err != nil {
		return err
	}

	svc := models.Service{
		Name:         "Full Body Checkup",
		Description:  "Comprehensive annual health screening",
		DepartmentID: departments[2].ID,
		BasePrice:    120,
		Active:       true,
	}
	if err := db.Create(&svc).Error; err != nil {
		return err
	}

	offer := models.Offer{
		Name:        "Annual Checkup Package",
		Description: "Full body checkup with 10% discount",
		ServiceID:   svc.ID,
		Price:       120,
		Discount:    10,
		Tax:         5,
	}
	offer.ComputeTotal()
	return db.Create(&offer).Error
}
