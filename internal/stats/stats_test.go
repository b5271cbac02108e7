package stats_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/GianImpedovo/is-inventoryapp/internal/model"
	"github.com/GianImpedovo/is-inventoryapp/internal/stats"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func category(s string) *string {
	return &s
}

type stubLister struct {
	products []model.Product
	err      error
}

func (s stubLister) List(context.Context) ([]model.Product, error) {
	return s.products, s.err
}

// cents mirrors the SQL aggregate with integer arithmetic.
type centsQuerier struct {
	products []model.Product
}

func (q centsQuerier) Stats(context.Context) (model.Stats, error) {
	var result model.Stats
	seen := map[string]bool{}
	var cents int64
	for _, p := range q.products {
		result.TotalProducts++
		result.TotalItems += p.Quantity
		if p.Category != nil && *p.Category != "" && !seen[*p.Category] {
			seen[*p.Category] = true
			result.TotalCategories++
		}
		cents += p.Quantity * p.Price.Shift(2).IntPart()
	}
	result.TotalValue = decimal.New(cents, -2)
	return result, nil
}

type stubReporter struct {
	stats model.Stats
	err   error
	calls int
}

func (s *stubReporter) ComputeStats(context.Context) (model.Stats, error) {
	s.calls++
	return s.stats, s.err
}

func TestFold(t *testing.T) {
	t.Run("quantity and value totals", func(t *testing.T) {
		products := []model.Product{
			{ID: 1, Name: "A", Quantity: 2, Price: decimal.NewFromInt(10)},
			{ID: 2, Name: "B", Quantity: 3, Price: decimal.NewFromInt(5)},
		}

		result := stats.Fold(products)

		assert.Equal(t, int64(2), result.TotalProducts)
		assert.Equal(t, int64(5), result.TotalItems)
		assert.Equal(t, int64(0), result.TotalCategories)
		assert.Equal(t, "35.00", result.TotalValue.StringFixed(2))
	})

	t.Run("distinct non-empty categories", func(t *testing.T) {
		products := []model.Product{
			{Name: "A", Category: category("Tools")},
			{Name: "B", Category: category("Tools")},
			{Name: "C", Category: category("Garden")},
			{Name: "D", Category: category("")},
			{Name: "E"},
		}

		assert.Equal(t, int64(2), stats.Fold(products).TotalCategories)
	})

	t.Run("empty set", func(t *testing.T) {
		result := stats.Fold(nil)
		assert.True(t, result.Equal(model.Stats{TotalValue: decimal.Zero}))
	})
}

func TestQueryAndFoldAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	categories := []string{"", "Tools", "Garden", "Kitchen", "Office"}
	ctx := context.Background()

	for round := 0; round < 200; round++ {
		n := rng.IntN(20)
		products := make([]model.Product, 0, n)
		for i := 0; i < n; i++ {
			p := model.Product{
				ID:       int64(i + 1),
				Name:     "item",
				Quantity: rng.Int64N(1000),
				Price:    decimal.New(rng.Int64N(1_000_000), -2),
			}
			if c := rng.IntN(len(categories) + 1); c < len(categories) {
				p.Category = category(categories[c])
			}
			products = append(products, p)
		}

		fromQuery, err := stats.NewQueryReporter(centsQuerier{products: products}).ComputeStats(ctx)
		require.NoError(t, err)
		fromFold, err := stats.NewFoldReporter(stubLister{products: products}).ComputeStats(ctx)
		require.NoError(t, err)

		require.True(t, fromQuery.Equal(fromFold), "round %d: query %+v fold %+v", round, fromQuery, fromFold)
	}
}

func TestFoldReporter_ListError(t *testing.T) {
	listErr := errors.New("store down")
	_, err := stats.NewFoldReporter(stubLister{err: listErr}).ComputeStats(context.Background())
	assert.True(t, errors.Is(err, listErr))
}

func TestFallbackReporter(t *testing.T) {
	ctx := context.Background()
	want := model.Stats{TotalProducts: 1, TotalItems: 4, TotalValue: decimal.NewFromInt(8)}

	t.Run("primary succeeds", func(t *testing.T) {
		primary := &stubReporter{stats: want}
		secondary := &stubReporter{}

		got, err := stats.NewFallbackReporter(primary, secondary).ComputeStats(ctx)
		require.NoError(t, err)
		assert.True(t, want.Equal(got))
		assert.Equal(t, 0, secondary.calls)
	})

	t.Run("primary fails", func(t *testing.T) {
		primary := &stubReporter{err: errors.New("aggregate failed")}
		secondary := &stubReporter{stats: want}

		got, err := stats.NewFallbackReporter(primary, secondary).ComputeStats(ctx)
		require.NoError(t, err)
		assert.True(t, want.Equal(got))
		assert.Equal(t, 1, secondary.calls)
	})

	t.Run("both fail", func(t *testing.T) {
		secondaryErr := errors.New("list failed")
		primary := &stubReporter{err: errors.New("aggregate failed")}
		secondary := &stubReporter{err: secondaryErr}

		_, err := stats.NewFallbackReporter(primary, secondary).ComputeStats(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, secondaryErr))
	})
}
