package database

import (
	"fmt"

	"bookmap/internal/config"
	"bookmap/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Book{},
		&models.City{},
		&models.Review{},
		&models.ReviewAsset{},
		&models.AdminSession{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// defaultBooks is used when the config carries no seed list.
var defaultBooks = []config.BookSeed{
	{Title: "AI Engineering", ShortName: "AIE", PinColor: "#FF0000"},
	{Title: "Designing Machine Learning Systems", ShortName: "DMLS", PinColor: "#00FF00"},
}

// SeedBooks inserts the configured books once, when the table is empty.
// Books are reference data and are never written through the API.
func SeedBooks(db *gorm.DB, seeds []config.BookSeed) error {
	var count int64
	if err := db.Model(&models.Book{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if count > 0 {
		return nil
	}

	if len(seeds) == 0 {
		seeds = defaultBooks
	}

	for _, s := range seeds {
		book := models.Book{
			Title:     s.Title,
			ShortName: s.ShortName,
			PinColor:  s.PinColor,
		}
		if err := db.Create(&book).Error; err != nil {
			return fmt.Errorf("seed book %q: %w", s.ShortName, err)
		}
	}
	return nil
}
