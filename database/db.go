package database

import (
	"fmt"
	"log"

	"github.com/mytheresa/go-storefront/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Quantity and is_active defaults live in the column only; see models.NewItem.
var itemColumnDefaults = fmt.Sprintf(
	"ALTER TABLE items ALTER COLUMN quantity SET DEFAULT %d, ALTER COLUMN is_active SET DEFAULT true",
	models.DefaultQuantity,
)

// Connect opens the catalog database and migrates the schema.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&models.Category{}, &models.Item{}, &models.ItemImage{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	if err := db.Exec(itemColumnDefaults).Error; err != nil {
		return nil, fmt.Errorf("set item column defaults: %w", err)
	}

	log.Println("Database connected successfully")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
		return
	}
	log.Println("Database connection closed")
}
