package models

import "github.com/google/uuid"

// Product is a catalog item.
type Product struct {
	BaseModel
	Name        string   `json:"name"`
	Slug        string   `gorm:"uniqueIndex" json:"slug"`
	Category    string   `gorm:"index" json:"category"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	ImageURL    string   `json:"image_url"`
	Reviews     []Review `json:"reviews,omitempty"`
}

// Review is a customer rating for a product. One review per user per product.
type Review struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_reviews_product_user" json:"product_id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_reviews_product_user" json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
}
