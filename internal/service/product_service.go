package service

import (
	"context"
	"log/slog"

	"github.com/GianImpedovo/is-inventoryapp/internal/metrics"
	"github.com/GianImpedovo/is-inventoryapp/internal/model"
	"github.com/GianImpedovo/is-inventoryapp/internal/repository"
	"github.com/GianImpedovo/is-inventoryapp/internal/sqs"
	"github.com/GianImpedovo/is-inventoryapp/internal/stats"
)

// Notifier publishes product change messages.
type Notifier interface {
	PublishProductMessage(ctx context.Context, msg sqs.ProductMessage) error
}

type ProductService struct {
	repo     repository.ProductRepository
	reporter stats.Reporter
	notifier Notifier
}

// NewProductService wires the store, the stats reporter and an optional notifier.
// A nil notifier disables change notifications.
func NewProductService(repo repository.ProductRepository, reporter stats.Reporter, notifier Notifier) *ProductService {
	return &ProductService{
		repo:     repo,
		reporter: reporter,
		notifier: notifier,
	}
}

func (ps *ProductService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return ps.repo.List(ctx)
}

func (ps *ProductService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return ps.repo.FindByID(ctx, id)
}

// CreateProduct inserts a product built from the supplied fields.
// Absent quantity and price default to zero.
func (ps *ProductService) CreateProduct(ctx context.Context, fields model.ProductPatch) (*model.Product, error) {
	product := &model.Product{
		Category:    fields.Category,
		Description: fields.Description,
	}
	if fields.Name != nil {
		product.Name = *fields.Name
	}
	if fields.Quantity != nil {
		product.Quantity = *fields.Quantity
	}
	if fields.Price != nil {
		product.Price = *fields.Price
	}

	created, err := ps.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	metrics.ProductsCreated.Inc()
	ps.notify(ctx, sqs.ActionCreated, created)

	return created, nil
}

func (ps *ProductService) UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	updated, err := ps.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	metrics.ProductsUpdated.Inc()
	ps.notify(ctx, sqs.ActionUpdated, updated)

	return updated, nil
}

// DeleteProduct removes a product and returns its id.
func (ps *ProductService) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	deleted, err := ps.repo.DeleteByID(ctx, id)
	if err != nil {
		return 0, err
	}

	metrics.ProductsDeleted.Inc()
	ps.notify(ctx, sqs.ActionDeleted, &model.Product{ID: deleted})

	return deleted, nil
}

func (ps *ProductService) Stats(ctx context.Context) (model.Stats, error) {
	return ps.reporter.ComputeStats(ctx)
}

func (ps *ProductService) Health(ctx context.Context) error {
	return ps.repo.Ping(ctx)
}

func (ps *ProductService) notify(ctx context.Context, action string, product *model.Product) {
	if ps.notifier == nil {
		return
	}

	msg := sqs.ProductMessage{
		Action:    action,
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  product.Quantity,
		Price:     product.Price.InexactFloat64(),
	}
	if err := ps.notifier.PublishProductMessage(ctx, msg); err != nil {
		// Log error but don't fail the request
		slog.Error("Failed to send SQS message", slog.Any("err", err), slog.String("action", action), slog.Int64("product_id", product.ID))
	}
}
