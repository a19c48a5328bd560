package models

import "github.com/shopspring/decimal"

// CartItem is one ledger line. Identity is (ProductID, Size): the same
// product in two sizes is two lines. Size stays empty for products that do
// not require a variant.
type CartItem struct {
	ProductID     int64           `gorm:"primaryKey;autoIncrement:false" json:"productId"`
	Size          string          `gorm:"primaryKey;size:16" json:"size,omitempty"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	PriceSnapshot decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"priceSnapshot"`
	Title         string          `json:"title"`
	Image         string          `json:"image"`
	// Position records the line's slot in the ledger so reads come back in
	// insertion order.
	Position int `gorm:"not null" json:"-"`
}

// Matches reports whether the line carries the given identity key.
func (i CartItem) Matches(productID int64, size string) bool {
	return i.ProductID == productID && i.Size == size
}

// LineTotal returns price x quantity for the line.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.PriceSnapshot.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
