package models

import "time"

// CheckoutLine is one line of the manifest sent to the payment provider.
type CheckoutLine struct {
	VariantID   string  `json:"variant_id,omitempty"`
	ProductID   string  `json:"product_id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Size        string  `json:"size,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// CheckoutRecord is the manifest captured when a hosted checkout session is
// created. The order recorder reads it back when the session completes.
type CheckoutRecord struct {
	SessionID          string         `json:"session_id" gorm:"primaryKey;type:varchar(255)"`
	CartID             string         `json:"cart_id" gorm:"type:varchar(64)"`
	UserID             string         `json:"user_id" gorm:"type:varchar(36)"`
	Country            string         `json:"country" gorm:"type:varchar(2)"`
	Items              []CheckoutLine `json:"items" gorm:"serializer:json"`
	ProductsTotalPrice float64        `json:"products_total_price"`
	ShippingPrice      float64        `json:"shipping_price"`
	CreatedAt          time.Time      `json:"created_at"`
}
