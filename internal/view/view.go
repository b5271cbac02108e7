// Package view holds the client side dashboard state and its text rendering.
package view

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/GianImpedovo/is-inventoryapp/internal/model"
	"golang.org/x/text/cases"
)

// State is the dashboard view state. The zero value shows everything.
// Methods return modified copies and never change the receiver.
type State struct {
	Search    string
	Category  string
	EditingID int64
}

// WithSearch returns a copy with the search text replaced.
func (s State) WithSearch(search string) State {
	s.Search = search
	return s
}

// WithCategory returns a copy filtered to category. Empty means all categories.
func (s State) WithCategory(category string) State {
	s.Category = category
	return s
}

// WithEditing returns a copy marking product id as being edited.
func (s State) WithEditing(id int64) State {
	s.EditingID = id
	return s
}

// ClearEditing returns a copy with no product selected.
func (s State) ClearEditing() State {
	s.EditingID = 0
	return s
}

// Filter returns the products visible under state, in their original order.
// Search is a case-insensitive substring match on name or description;
// category must match exactly.
func Filter(state State, products []model.Product) []model.Product {
	needle := fold(strings.TrimSpace(state.Search))

	visible := make([]model.Product, 0, len(products))
	for _, p := range products {
		if state.Category != "" && (p.Category == nil || *p.Category != state.Category) {
			continue
		}
		if needle != "" && !matches(p, needle) {
			continue
		}
		visible = append(visible, p)
	}
	return visible
}

func matches(p model.Product, needle string) bool {
	if strings.Contains(fold(p.Name), needle) {
		return true
	}
	return p.Description != nil && strings.Contains(fold(*p.Description), needle)
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// Categories returns the distinct non-empty categories, sorted.
func Categories(products []model.Product) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, p := range products {
		if !p.HasCategory() {
			continue
		}
		if _, ok := seen[*p.Category]; ok {
			continue
		}
		seen[*p.Category] = struct{}{}
		categories = append(categories, *p.Category)
	}
	slices.Sort(categories)
	return categories
}

// Render writes the filtered product table followed by the stats line.
func Render(w io.Writer, state State, products []model.Product, stats model.Stats) error {
	visible := Filter(state, products)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tCATEGORY\tQTY\tPRICE\tDESCRIPTION")
	for _, p := range visible {
		marker := ""
		if p.ID == state.EditingID {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%s\t%s\n",
			marker, p.ID, p.Name, orDash(p.Category), p.Quantity,
			p.Price.StringFixed(model.PriceScale), orDash(p.Description))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to render products: %w", err)
	}

	if state.Search != "" || state.Category != "" {
		if _, err := fmt.Fprintf(w, "\nshowing %d of %d products\n", len(visible), len(products)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nproducts: %d  items: %d  categories: %d  value: %s\n",
		stats.TotalProducts, stats.TotalItems, stats.TotalCategories,
		stats.TotalValue.StringFixed(model.PriceScale))
	return err
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
