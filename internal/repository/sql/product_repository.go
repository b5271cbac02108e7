package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GianImpedovo/is-inventoryapp/internal/model"
	"github.com/GianImpedovo/is-inventoryapp/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgNotNullViolationCode  = "23502" // See https://www.postgresql.org/docs/14/errcodes-appendix.html
	pgCheckViolationCode    = "23514"
	pgNumericOutOfRangeCode = "22003"

	productColumns = "id, name, category, quantity, price, description, created_at, updated_at"
)

// ProductRepository implements repository.ProductRepository on top of PostgreSQL.
type ProductRepository struct {
	db dbExecutor
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var (
		product     model.Product
		category    sql.NullString
		description sql.NullString
	)
	err := row.Scan(
		&product.ID, &product.Name, &category, &product.Quantity, &product.Price, &description,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if category.Valid {
		product.Category = &category.String
	}
	if description.Valid {
		product.Description = &description.String
	}
	return &product, nil
}

// nullIfEmpty stores absent and empty optional text as NULL.
func nullIfEmpty(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func storeError(action string, err error) error {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgCheckViolationCode, pgNotNullViolationCode:
			return repository.NewValidationError("", fmt.Sprintf("constraint violated: %s", pgError.ConstraintName))
		case pgNumericOutOfRangeCode:
			return repository.NewValidationError("", "value out of range")
		}
	}
	return fmt.Errorf("%w: failed to %s: %w", repository.ErrStoreUnavailable, action, err)
}

// List retrieves all products ordered by id.
func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id ASC`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, storeError("prepare select statement", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, storeError("query products", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, storeError("scan product", err)
		}
		products = append(products, *product)
	}

	if err = rows.Err(); err != nil {
		return nil, storeError("iterate rows", err)
	}

	return products, nil
}

// FindByID retrieves a single product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, storeError("prepare select statement", err)
	}
	defer stmt.Close()

	product, err := scanProduct(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, storeError("query product", err)
	}

	return product, nil
}

// Create inserts a new product and returns the stored row.
// The store assigns the id and both timestamps.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if err := repository.ValidateNew(product); err != nil {
		return nil, err
	}

	query := `INSERT INTO products (name, category, quantity, price, description)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING ` + productColumns

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, storeError("prepare insert statement", err)
	}
	defer stmt.Close()

	created, err := scanProduct(stmt.QueryRowContext(ctx,
		product.Name,
		nullIfEmpty(product.Category),
		product.Quantity,
		model.RoundPrice(product.Price),
		nullIfEmpty(product.Description),
	))
	if err != nil {
		return nil, storeError("insert product", err)
	}

	return created, nil
}

// Update overwrites the fields present in patch and returns the full row.
// Absent fields keep their stored value; an empty category or description clears it.
func (r *ProductRepository) Update(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	if err := repository.ValidateID(id); err != nil {
		return nil, err
	}
	if err := repository.ValidatePatch(patch); err != nil {
		return nil, err
	}

	query := `UPDATE products SET
	            name = COALESCE($1, name),
	            category = CASE WHEN $2::text IS NULL THEN category ELSE NULLIF($2::text, '') END,
	            quantity = COALESCE($3, quantity),
	            price = COALESCE($4, price),
	            description = CASE WHEN $5::text IS NULL THEN description ELSE NULLIF($5::text, '') END
	          WHERE id = $6
	          RETURNING ` + productColumns

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, storeError("prepare update statement", err)
	}
	defer stmt.Close()

	var price any
	if patch.Price != nil {
		price = model.RoundPrice(*patch.Price)
	}

	updated, err := scanProduct(stmt.QueryRowContext(ctx,
		patch.Name,
		patch.Category,
		patch.Quantity,
		price,
		patch.Description,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, storeError("update product", err)
	}

	return updated, nil
}

// DeleteByID deletes a product by ID and returns the deleted ID.
func (r *ProductRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	if err := repository.ValidateID(id); err != nil {
		return 0, err
	}

	query := `DELETE FROM products WHERE id = $1 RETURNING id`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return 0, storeError("prepare delete statement", err)
	}
	defer stmt.Close()

	var deleted int64
	if err := stmt.QueryRowContext(ctx, id).Scan(&deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, storeError("delete product", err)
	}

	return deleted, nil
}

// Stats computes the aggregate figures in a single statement.
func (r *ProductRepository) Stats(ctx context.Context) (model.Stats, error) {
	query := `SELECT
	            COUNT(*),
	            COALESCE(SUM(quantity), 0),
	            COUNT(DISTINCT NULLIF(category, '')),
	            COALESCE(SUM(quantity * price), 0)
	          FROM products`

	var stats model.Stats
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalProducts, &stats.TotalItems, &stats.TotalCategories, &stats.TotalValue,
	)
	if err != nil {
		return model.Stats{}, storeError("compute stats", err)
	}
	stats.TotalValue = model.RoundPrice(stats.TotalValue)

	return stats, nil
}

// Ping checks that the store is reachable.
func (r *ProductRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return storeError("ping database", err)
	}
	return nil
}
