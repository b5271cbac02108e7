package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of fraction digits kept for prices.
const PriceScale = 2

// Product represents an inventory record.
type Product struct {
	ID          int64
	Name        string
	Category    *string
	Quantity    int64
	Price       decimal.Decimal
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasCategory reports whether the product belongs to a non-empty category.
func (p Product) HasCategory() bool {
	return p.Category != nil && *p.Category != ""
}

// Value returns quantity multiplied by price.
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(p.Quantity))
}

// ProductPatch holds the fields of a partial update.
// A nil field leaves the stored value unchanged.
type ProductPatch struct {
	Name        *string
	Category    *string
	Quantity    *int64
	Price       *decimal.Decimal
	Description *string
}

// IsEmpty reports whether the patch carries no field at all.
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.Quantity == nil && p.Price == nil && p.Description == nil
}

// RoundPrice rounds a price to PriceScale fraction digits.
func RoundPrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(PriceScale)
}
