package database

import (
	"fmt"

	"boutique/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL. Unique-constraint violations are translated to
// gorm.ErrDuplicatedKey so repositories can map them to conflicts.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductVariant{},
		&models.CountryShippingPrice{},
		&models.ShippingSettings{},
		&models.CheckoutRecord{},
		&models.Order{},
		&models.OrderItem{},
		&models.Set{},
		&models.SetImage{},
		&models.SetProduct{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
