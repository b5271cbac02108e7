package repository

import (
	"context"
	"errors"

	"github.com/GianImpedovo/is-inventoryapp/internal/model"
)

var (
	// ErrNotFound is returned when no product matches the given identifier.
	ErrNotFound = errors.New("product not found")

	// ErrStoreUnavailable wraps failures of the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ProductRepository defines the operations available on the product table.
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	Update(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	Stats(ctx context.Context) (model.Stats, error)
	Ping(ctx context.Context) error
}

// ValidationError represents malformed or missing input.
type ValidationError struct {
	Field  string
	Reason string
}

func (v *ValidationError) Error() string {
	if v.Field == "" {
		return v.Reason
	}
	return v.Field + " " + v.Reason
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
