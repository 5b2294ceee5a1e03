package models

// CartItem is one line of a cart. A cart holds at most one line per variant.
type CartItem struct {
	VariantID      string  `json:"variant_id" validate:"required"`
	ProductID      string  `json:"product_id" validate:"required"`
	Slug           string  `json:"slug"`
	Size           string  `json:"size"`
	Quantity       int     `json:"quantity" validate:"gte=0"`
	Name           string  `json:"name" validate:"required"`
	Price          float64 `json:"price" validate:"gte=0"`
	ImageURL       string  `json:"image_url"`
	AvailableStock int     `json:"available_stock" validate:"gte=0"` // last known stock for the variant
}
