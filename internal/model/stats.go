package model

import "github.com/shopspring/decimal"

// Stats holds aggregate figures over the whole product table.
type Stats struct {
	TotalProducts   int64
	TotalItems      int64
	TotalCategories int64
	TotalValue      decimal.Decimal
}

// Equal reports whether two stats carry the same figures.
func (s Stats) Equal(other Stats) bool {
	return s.TotalProducts == other.TotalProducts &&
		s.TotalItems == other.TotalItems &&
		s.TotalCategories == other.TotalCategories &&
		s.TotalValue.Equal(other.TotalValue)
}
