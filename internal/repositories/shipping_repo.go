package repositories

import (
	"context"

	"boutique/internal/apperrors"
	"boutique/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShippingPriceRepository defines the interface for shipping reference data.
type ShippingPriceRepository interface {
	GetByCountryCode(ctx context.Context, code string) (*models.CountryShippingPrice, error)
	List(ctx context.Context) ([]models.CountryShippingPrice, error)
	Upsert(ctx context.Context, price *models.CountryShippingPrice) error
	Delete(ctx context.Context, code string) error
	GetDefault(ctx context.Context) (*models.ShippingSettings, error)
	SetDefault(ctx context.Context, price float64) error
}

const shippingSettingsID = 1

// GORMShippingPriceRepository is a GORM implementation of ShippingPriceRepository.
type GORMShippingPriceRepository struct {
	db *gorm.DB
}

// NewGORMShippingPriceRepository creates a new GORMShippingPriceRepository.
func NewGORMShippingPriceRepository(db *gorm.DB) *GORMShippingPriceRepository {
	return &GORMShippingPriceRepository{db: db}
}

// GetByCountryCode looks up the exact country code. Codes are stored upper-case.
func (r *GORMShippingPriceRepository) GetByCountryCode(ctx context.Context, code string) (*models.CountryShippingPrice, error) {
	var price models.CountryShippingPrice
	err := r.db.WithContext(ctx).First(&price, "country_code = ?", code).Error
	if err != nil {
		return nil, translate(err, "get shipping price", apperrors.NotFound("no shipping price for %s", code))
	}
	return &price, nil
}

// List returns all country prices ordered by country name.
func (r *GORMShippingPriceRepository) List(ctx context.Context) ([]models.CountryShippingPrice, error) {
	var prices []models.CountryShippingPrice
	if err := r.db.WithContext(ctx).Order("country_name").Find(&prices).Error; err != nil {
		return nil, translate(err, "list shipping prices", nil)
	}
	return prices, nil
}

// Upsert inserts or replaces the price for a country.
func (r *GORMShippingPriceRepository) Upsert(ctx context.Context, price *models.CountryShippingPrice) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "country_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"country_name", "shipping_price", "min_delivery_days", "max_delivery_days", "updated_at"}),
	}).Create(price).Error
	return translate(err, "upsert shipping price", nil)
}

// Delete removes the price for a country.
func (r *GORMShippingPriceRepository) Delete(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Delete(&models.CountryShippingPrice{}, "country_code = ?", code)
	if res.Error != nil {
		return translate(res.Error, "delete shipping price", nil)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("no shipping price for %s", code)
	}
	return nil
}

// GetDefault returns the configured default, or a not-found error when none is set.
func (r *GORMShippingPriceRepository) GetDefault(ctx context.Context) (*models.ShippingSettings, error) {
	var settings models.ShippingSettings
	err := r.db.WithContext(ctx).First(&settings, shippingSettingsID).Error
	if err != nil {
		return nil, translate(err, "get shipping settings", apperrors.NotFound("no default shipping price configured"))
	}
	return &settings, nil
}

// SetDefault stores the default shipping price.
func (r *GORMShippingPriceRepository) SetDefault(ctx context.Context, price float64) error {
	settings := models.ShippingSettings{ID: shippingSettingsID, DefaultPrice: price}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"default_price", "updated_at"}),
	}).Create(&settings).Error
	return translate(err, "set default shipping price", nil)
}
