package models

import "time"

// Product is a catalog entry. Stock lives on its variants.
type Product struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string           `json:"name" gorm:"type:varchar(200)" validate:"required,min=2,max=200"`
	Slug        string           `json:"slug" gorm:"uniqueIndex;type:varchar(220)"`
	Description string           `json:"description" validate:"omitempty,max=2000"`
	Price       float64          `json:"price" validate:"gt=0"`
	ImageURL    string           `json:"image_url"`
	IsActive    bool             `json:"is_active"`
	Variants    []ProductVariant `json:"variants" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" validate:"dive"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductVariant is a size-bound purchasable configuration of a product.
type ProductVariant struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"index;type:varchar(36)"`
	Size      string `json:"size" gorm:"type:varchar(20)" validate:"required,max=20"`
	Stock     int    `json:"stock" validate:"gte=0"`
}
