package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/GianImpedovo/is-inventoryapp/internal/model"
	"github.com/GianImpedovo/is-inventoryapp/internal/stats"
	"github.com/GianImpedovo/is-inventoryapp/internal/view"
	"github.com/go-extras/cobraflags"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Filter flags
const (
	searchFlag   = "search"
	categoryFlag = "category"
)

// Product field flags
const (
	nameFlag        = "name"
	quantityFlag    = "quantity"
	priceFlag       = "price"
	descriptionFlag = "description"
)

func newListCommand(a *app) *cobra.Command {
	flags := map[string]cobraflags.Flag{
		searchFlag: &cobraflags.StringFlag{
			Name:  searchFlag,
			Value: "",
			Usage: "Case-insensitive text matched against name and description",
		},
		categoryFlag: &cobraflags.StringFlag{
			Name:  categoryFlag,
			Value: "",
			Usage: "Show only this exact category",
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products with inventory stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state := view.State{}.
				WithSearch(flags[searchFlag].GetString()).
				WithCategory(flags[categoryFlag].GetString())
			return a.refresh(cmd.Context(), cmd.OutOrStdout(), state)
		},
	}

	cobraflags.RegisterMap(listCmd, flags)
	return listCmd
}

func productFlags(nameUsage string) map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		nameFlag: &cobraflags.StringFlag{
			Name:  nameFlag,
			Value: "",
			Usage: nameUsage,
		},
		categoryFlag: &cobraflags.StringFlag{
			Name:  categoryFlag,
			Value: "",
			Usage: "Free-form category; an empty value clears it",
		},
		quantityFlag: &cobraflags.StringFlag{
			Name:  quantityFlag,
			Value: "",
			Usage: "Units in stock",
		},
		priceFlag: &cobraflags.StringFlag{
			Name:  priceFlag,
			Value: "",
			Usage: "Unit price, rounded to two decimals",
		},
		descriptionFlag: &cobraflags.StringFlag{
			Name:  descriptionFlag,
			Value: "",
			Usage: "Free text description; an empty value clears it",
		},
	}
}

// patchFromFlags builds a patch holding only the flags given on the command line.
func patchFromFlags(cmd *cobra.Command, flags map[string]cobraflags.Flag) (model.ProductPatch, error) {
	var patch model.ProductPatch
	changed := func(name string) bool {
		return cmd.Flags().Changed(name)
	}

	if changed(nameFlag) {
		name := flags[nameFlag].GetString()
		patch.Name = &name
	}
	if changed(categoryFlag) {
		category := flags[categoryFlag].GetString()
		patch.Category = &category
	}
	if changed(descriptionFlag) {
		description := flags[descriptionFlag].GetString()
		patch.Description = &description
	}
	if changed(quantityFlag) {
		quantity, err := strconv.ParseInt(flags[quantityFlag].GetString(), 10, 64)
		if err != nil {
			return model.ProductPatch{}, fmt.Errorf("invalid --%s: %w", quantityFlag, err)
		}
		patch.Quantity = &quantity
	}
	if changed(priceFlag) {
		price, err := decimal.NewFromString(flags[priceFlag].GetString())
		if err != nil {
			return model.ProductPatch{}, fmt.Errorf("invalid --%s: %w", priceFlag, err)
		}
		patch.Price = &price
	}
	return patch, nil
}

func newAddCommand(a *app) *cobra.Command {
	flags := productFlags("Product name (required)")

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields, err := patchFromFlags(cmd, flags)
			if err != nil {
				return err
			}

			created, err := a.client.CreateProduct(cmd.Context(), fields)
			if err != nil {
				return fmt.Errorf("failed to create product: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created product %d\n\n", created.ID)
			return a.refresh(cmd.Context(), cmd.OutOrStdout(), view.State{})
		},
	}

	cobraflags.RegisterMap(addCmd, flags)
	return addCmd
}

func newUpdateCommand(a *app) *cobra.Command {
	flags := productFlags("New product name")

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a product",
		Long: `Change the given fields of a product. Fields not passed on the command line keep their value.

Examples:
  inventoryctl update 3 --quantity 7
  inventoryctl update 3 --category ""   # clear the category`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			patch, err := patchFromFlags(cmd, flags)
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update: pass at least one of --%s, --%s, --%s, --%s or --%s",
					nameFlag, categoryFlag, quantityFlag, priceFlag, descriptionFlag)
			}

			updated, err := a.client.UpdateProduct(cmd.Context(), id, patch)
			if err != nil {
				return fmt.Errorf("failed to update product %d: %w", id, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated product %d\n\n", updated.ID)
			return a.refresh(cmd.Context(), cmd.OutOrStdout(), view.State{}.WithEditing(updated.ID))
		},
	}

	cobraflags.RegisterMap(updateCmd, flags)
	return updateCmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			deleted, err := a.client.DeleteProduct(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to delete product %d: %w", id, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted product %d\n\n", deleted)
			return a.refresh(cmd.Context(), cmd.OutOrStdout(), view.State{})
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// refresh fetches the whole collection and the stats concurrently and renders them.
// Stats are folded from the fetched list when the server cannot compute them.
func (a *app) refresh(ctx context.Context, w io.Writer, state view.State) error {
	var (
		products []model.Product
		summary  model.Stats
		statsErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = a.client.ListProducts(gctx)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		summary, statsErr = a.client.Stats(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if statsErr != nil {
		slog.Warn("Server stats unavailable, computing locally", slog.Any("err", statsErr))
		summary = stats.Fold(products)
	}

	return view.Render(w, state, products, summary)
}
