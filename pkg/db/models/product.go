package models

import "github.com/shopspring/decimal"

// Product is one catalog entry. The id, title, price, category, image,
// description and rating come from the remote catalog; stock and the
// requires-variant flag are synthesized locally at initialization.
type Product struct {
	ID              int64           `gorm:"primaryKey" json:"id"`
	Title           string          `gorm:"not null" json:"title"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Category        string          `gorm:"index" json:"category"`
	Image           string          `json:"image"`
	Description     string          `json:"description"`
	RatingRate      float64         `json:"ratingRate"`
	RatingCount     int             `json:"ratingCount"`
	Stock           int             `gorm:"not null" json:"stock"`
	RequiresVariant bool            `gorm:"not null" json:"requiresVariant"`
}

// InStock reports whether the product can currently be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}
