package models

import "time"

// Set is a curated, named collection of products.
type Set struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string     `json:"name" gorm:"type:varchar(200)"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;type:varchar(220)"`
	Description string     `json:"description"`
	Type        string     `json:"type" gorm:"index;type:varchar(50)"`
	IsActive    bool       `json:"is_active" gorm:"index"`
	Images      []SetImage `json:"images,omitempty" gorm:"foreignKey:SetID"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SetImage is an image file of a set kept in object storage.
type SetImage struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SetID     string    `json:"set_id" gorm:"index;type:varchar(36)"`
	ObjectKey string    `json:"object_key"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// SetProduct links a product into a set. A product appears in a set at most once.
type SetProduct struct {
	SetID     string    `json:"set_id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
}
