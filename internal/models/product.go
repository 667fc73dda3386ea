package models

import (
	"time"
)

// Product is a catalog entry mirrored from the Shopify store.
// ID is the numeric Shopify product id extracted from the GraphQL global id.
type Product struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"not null"`
	CardName   string    `json:"card_name" gorm:"not null;index"`
	SetName    *string   `json:"set_name" gorm:"index"`
	Handle     string    `json:"handle"`
	ImageURL   string    `json:"image_url"`
	ProductURL string    `json:"product_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Variants []Variant `json:"variants,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// Variant is a stocked printing of a product: one combination of
// condition and finish with its own price and quantity.
type Variant struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	ProductID int64     `json:"product_id" gorm:"not null;index"`
	Condition *string   `json:"condition"`
	Finish    *string   `json:"finish"`
	Price     float64   `json:"price" gorm:"type:decimal(10,2)"`
	Quantity  int       `json:"quantity" gorm:"not null;default:0;index"`
	SKU       string    `json:"sku"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InventoryStats summarizes the current contents of the store.
type InventoryStats struct {
	Products   int64 `json:"products"`
	Variants   int64 `json:"variants"`
	TotalStock int64 `json:"total_stock"`
}
