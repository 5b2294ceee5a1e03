package models

import "time"

// Shipping statuses. Delivered and cancelled are terminal.
const (
	ShippingStatusPending   = "pending"
	ShippingStatusInTransit = "in_transit"
	ShippingStatusDelivered = "delivered"
	ShippingStatusCancelled = "cancelled"
)

// PaymentStatusPaid is the payment status of every recorded order; orders
// are only created once the provider reports a completed session.
const PaymentStatusPaid = "paid"

// OrderItem represents a single item within an order.
type OrderItem struct {
	ID        uint    `json:"-" gorm:"primaryKey"`
	OrderID   string  `json:"order_id" gorm:"index;type:varchar(36)"`
	VariantID string  `json:"variant_id" gorm:"type:varchar(36)"`
	ProductID string  `json:"product_id" gorm:"type:varchar(36)"`
	Name      string  `json:"name"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"` // Price at the time of order
}

// Order is created once, when the payment provider reports a completed
// checkout session.
type Order struct {
	ID                 string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	StripeSessionID    string      `json:"stripe_session_id" gorm:"uniqueIndex;type:varchar(255)"`
	UserID             string      `json:"user_id" gorm:"index;type:varchar(36)"`
	CustomerEmail      string      `json:"customer_email"`
	Status             string      `json:"status"`
	ShippingStatus     string      `json:"shipping_status" gorm:"index"`
	Items              []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ProductsTotalPrice float64     `json:"products_total_price"`
	ShippingPrice      float64     `json:"shipping_price"`
	TotalQuantity      int         `json:"total_quantity"`
	TotalAmount        float64     `json:"total_amount"`

	ShippingName       string `json:"shipping_name"`
	ShippingLine1      string `json:"shipping_line1"`
	ShippingLine2      string `json:"shipping_line2"`
	ShippingCity       string `json:"shipping_city"`
	ShippingPostalCode string `json:"shipping_postal_code"`
	ShippingState      string `json:"shipping_state"`
	ShippingCountry    string `json:"shipping_country"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
