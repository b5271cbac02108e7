// Package stats computes aggregate inventory figures.
//
// Two strategies are available behind Reporter: a single aggregate query run by
// the store, and a fold over a loaded product list. Both yield the same Stats
// for the same rows.
package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GianImpedovo/is-inventoryapp/internal/metrics"
	"github.com/GianImpedovo/is-inventoryapp/internal/model"
	"github.com/shopspring/decimal"
)

// Reporter computes stats over the current product set.
type Reporter interface {
	ComputeStats(ctx context.Context) (model.Stats, error)
}

// Querier runs the aggregate query in the store.
type Querier interface {
	Stats(ctx context.Context) (model.Stats, error)
}

// Lister loads the full product collection.
type Lister interface {
	List(ctx context.Context) ([]model.Product, error)
}

// Fold computes stats from an already loaded product list.
func Fold(products []model.Product) model.Stats {
	var stats model.Stats
	categories := make(map[string]struct{})
	value := decimal.Zero

	for _, p := range products {
		stats.TotalProducts++
		stats.TotalItems += p.Quantity
		if p.HasCategory() {
			categories[*p.Category] = struct{}{}
		}
		value = value.Add(p.Value())
	}

	stats.TotalCategories = int64(len(categories))
	stats.TotalValue = model.RoundPrice(value)
	return stats
}

// QueryReporter delegates to the store aggregate query.
type QueryReporter struct {
	querier Querier
}

// NewQueryReporter creates a QueryReporter.
func NewQueryReporter(querier Querier) *QueryReporter {
	return &QueryReporter{querier: querier}
}

// ComputeStats implements Reporter.
func (r *QueryReporter) ComputeStats(ctx context.Context) (model.Stats, error) {
	return r.querier.Stats(ctx)
}

// FoldReporter lists every product and folds the result.
type FoldReporter struct {
	lister Lister
}

// NewFoldReporter creates a FoldReporter.
func NewFoldReporter(lister Lister) *FoldReporter {
	return &FoldReporter{lister: lister}
}

// ComputeStats implements Reporter.
func (r *FoldReporter) ComputeStats(ctx context.Context) (model.Stats, error) {
	products, err := r.lister.List(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	return Fold(products), nil
}

// FallbackReporter uses secondary when primary fails.
type FallbackReporter struct {
	primary   Reporter
	secondary Reporter
}

// NewFallbackReporter creates a FallbackReporter.
func NewFallbackReporter(primary, secondary Reporter) *FallbackReporter {
	return &FallbackReporter{primary: primary, secondary: secondary}
}

// ComputeStats implements Reporter.
func (r *FallbackReporter) ComputeStats(ctx context.Context) (model.Stats, error) {
	stats, err := r.primary.ComputeStats(ctx)
	if err == nil {
		return stats, nil
	}
	slog.Warn("primary stats computation failed, falling back", slog.Any("err", err))
	metrics.StatsFallbacks.Inc()

	stats, fallbackErr := r.secondary.ComputeStats(ctx)
	if fallbackErr != nil {
		return model.Stats{}, fmt.Errorf("failed to compute stats: %w", fallbackErr)
	}
	return stats, nil
}
