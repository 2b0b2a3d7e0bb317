package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cafebill/internal/model"
)

// NewMenuCommand creates the menu command tree.
func NewMenuCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show and edit the product menu",
		Long: `Show and edit the product menu.

Categories are addressed by key: the lower-case name with whitespace
removed, so "Hot Drinks" and "hotdrinks" name the same category.
Product positions are 1-based.`,
	}

	cmd.AddCommand(
		newMenuShowCommand(opts),
		newMenuAddCategoryCommand(opts),
		newMenuAddProductCommand(opts),
		newMenuEditProductCommand(opts),
		newMenuRemoveProductCommand(opts),
		newMenuRemoveCategoryCommand(opts),
	)
	return cmd
}

func newMenuShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				menu, err := app.Catalog.GetMenu(ctx)
				if err != nil {
					return err
				}
				return out.Success(menuView{menu})
			})
		},
	}
}

func newMenuAddCategoryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add-category NAME",
		Short: "Add an empty category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				key, err := app.Catalog.AddCategory(ctx, args[0])
				if err != nil {
					return err
				}
				return out.Success(messageView{
					Message: fmt.Sprintf("Category %s added.", key),
					Fields:  map[string]any{"category": key},
				})
			})
		},
	}
}

func newMenuAddProductCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add-product CATEGORY NAME PRICE",
		Short: "Append a product to a category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				price, err := model.ParsePrice(args[2])
				if err != nil {
					return err
				}
				key := model.CategoryKey(args[0])
				if err := app.Catalog.AddProduct(ctx, key, args[1], price); err != nil {
					return err
				}
				return out.Success(message("Product %s added to %s.", model.NormalizeName(args[1]), key))
			})
		},
	}
}

func newMenuEditProductCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit-product CATEGORY POS NAME PRICE",
		Short: "Replace the product at a position",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				index, err := model.ParsePosition(args[1])
				if err != nil {
					return err
				}
				price, err := model.ParsePrice(args[3])
				if err != nil {
					return err
				}
				key := model.CategoryKey(args[0])
				if err := app.Catalog.EditProduct(ctx, key, index, args[2], price); err != nil {
					return err
				}
				return out.Success(message("Product %d in %s updated.", index+1, key))
			})
		},
	}
}

func newMenuRemoveProductCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-product CATEGORY POS",
		Short: "Remove the product at a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				index, err := model.ParsePosition(args[1])
				if err != nil {
					return err
				}
				key := model.CategoryKey(args[0])
				if err := app.Catalog.RemoveProduct(ctx, key, index); err != nil {
					return err
				}
				return out.Success(message("Product %d removed from %s.", index+1, key))
			})
		},
	}
}

func newMenuRemoveCategoryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-category CATEGORY",
		Short: "Delete a category and its products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				key := model.CategoryKey(args[0])
				if err := app.Catalog.DeleteCategory(ctx, key); err != nil {
					return err
				}
				return out.Success(message("Category %s deleted.", key))
			})
		},
	}
}
