package models

import "time"

// CountryShippingPrice is the shipping price for one destination country.
type CountryShippingPrice struct {
	CountryCode     string    `json:"country_code" gorm:"primaryKey;type:varchar(2)" validate:"required,len=2,alpha"`
	CountryName     string    `json:"country_name" validate:"required,max=100"`
	ShippingPrice   float64   `json:"shipping_price" validate:"gte=0"`
	MinDeliveryDays int       `json:"min_delivery_days" validate:"gte=0"`
	MaxDeliveryDays int       `json:"max_delivery_days" validate:"gtefield=MinDeliveryDays"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ShippingSettings holds the single default shipping price used when a
// country has no entry of its own. Only the row with ID 1 is used.
type ShippingSettings struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	DefaultPrice float64   `json:"default_price"`
	UpdatedAt    time.Time `json:"updated_at"`
}
