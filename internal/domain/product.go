package domain

import "time"

// Product represents one catalog item parsed from the product text file.
// A record is immutable once parsed: the pipeline copies its fields into the
// vector payload and never mutates or deletes it afterwards.
//
// Invariant: DiscountPercent > 0 iff OriginalPrice > Price.
type Product struct {
	ID              string    `gorm:"type:text;primaryKey" json:"id"`
	Title           string    `gorm:"type:text;not null" json:"title"`
	Category        string    `gorm:"type:text;index:idx_products_category" json:"category"`
	Price           int64     `json:"price"`          // current price, VND
	OriginalPrice   int64     `json:"original_price"` // >= Price
	DiscountPercent int       `json:"discount_percent"`
	Description     string    `gorm:"type:text" json:"description"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

// TableName returns the database table name for Product.
func (Product) TableName() string {
	return "products"
}

// HasDiscount reports whether the product is currently discounted.
func (p *Product) HasDiscount() bool {
	return p.DiscountPercent > 0
}
