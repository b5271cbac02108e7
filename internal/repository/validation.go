package repository

import (
	"math"

	"github.com/GianImpedovo/is-inventoryapp/internal/model"
	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity the products table can hold.
const MaxQuantity = math.MaxInt32

// MaxPrice is the exclusive upper bound for a price rounded to model.PriceScale
// digits, matching the NUMERIC(12,2) column.
var MaxPrice = decimal.New(1, 10)

// ValidateID checks that id can identify a stored product.
func ValidateID(id int64) error {
	if id <= 0 {
		return NewValidationError("", "invalid id")
	}
	return nil
}

// ValidateNew checks a product before insertion.
func ValidateNew(product *model.Product) error {
	if product == nil || product.Name == "" {
		return NewValidationError("name", "is required")
	}
	if err := validateQuantity(product.Quantity); err != nil {
		return err
	}
	return validatePrice(product.Price)
}

// ValidatePatch checks the fields present in a partial update.
func ValidatePatch(patch model.ProductPatch) error {
	if patch.Name != nil && *patch.Name == "" {
		return NewValidationError("name", "must not be empty")
	}
	if patch.Quantity != nil {
		if err := validateQuantity(*patch.Quantity); err != nil {
			return err
		}
	}
	if patch.Price != nil {
		return validatePrice(*patch.Price)
	}
	return nil
}

func validateQuantity(quantity int64) error {
	switch {
	case quantity < 0:
		return NewValidationError("quantity", "must not be negative")
	case quantity > MaxQuantity:
		return NewValidationError("quantity", "is too large")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	switch {
	case price.IsNegative():
		return NewValidationError("price", "must not be negative")
	case model.RoundPrice(price).GreaterThanOrEqual(MaxPrice):
		return NewValidationError("price", "is too large")
	}
	return nil
}
