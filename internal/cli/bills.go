package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cafebill/internal/bills"
	"github.com/roach88/cafebill/internal/model"
)

// NewBillsCommand creates the bills command tree.
func NewBillsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bills",
		Short: "Create, edit, complete and list bills",
		Long: `Create, edit, complete and list bills.

Item positions are 1-based, as shown by "bills show".

Exit codes:
  0 - Success
  1 - Rejected by the bill rules (validation, not found, completed bill)
  2 - Command error (bad arguments, database errors)`,
	}

	cmd.AddCommand(
		newBillsCreateCommand(opts),
		newBillsAddCommand(opts),
		newBillsQtyCommand(opts),
		newBillsSetQtyCommand(opts),
		newBillsRemoveItemCommand(opts),
		newBillsCompleteCommand(opts),
		newBillsCancelCommand(opts),
		newBillsListCommand(opts),
		newBillsShowCommand(opts),
		newBillsPruneCommand(opts),
		newBillsResetCommand(opts),
		newBillsExportCSVCommand(opts),
	)
	return cmd
}

func newBillsCreateCommand(opts *RootOptions) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "create --table T ITEM...",
		Short: "Create a PENDING bill",
		Long: `Create a PENDING bill for a table.

ITEM is either Name=price[xqty] or a menu product category/position[xqty].

Examples:
  cafebill bills create --table 5 Espresso=80
  cafebill bills create --table 5 "Flat White=150x2" coffee/1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				menu, err := app.Catalog.GetMenu(ctx)
				if err != nil {
					return err
				}
				items := make([]model.LineItem, 0, len(args))
				for _, spec := range args {
					item, err := parseItemSpec(spec, menu)
					if err != nil {
						return err
					}
					items = append(items, item)
				}

				bill, err := app.Engine.CreateBill(ctx, table, items)
				if err != nil {
					return err
				}
				return out.Success(billView{bill})
			})
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "table identifier")
	return cmd
}

func newBillsAddCommand(opts *RootOptions) *cobra.Command {
	var (
		name    string
		price   string
		product string
	)

	cmd := &cobra.Command{
		Use:   "add ID (--name N --price P | --product category/position)",
		Short: "Add one unit of an item to a PENDING bill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (product == "") == (name == "" && price == "") {
				return NewExitError(ExitCommandError, "give either --product or --name with --price")
			}
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				itemName := name
				var unitPrice int64
				if product != "" {
					menu, err := app.Catalog.GetMenu(ctx)
					if err != nil {
						return err
					}
					category, pos, ok := cutLast(product, "/")
					if !ok {
						return NewExitError(ExitCommandError,
							fmt.Sprintf("invalid product %q: want category/position", product))
					}
					p, err := lookupProduct(menu, category, pos)
					if err != nil {
						return err
					}
					itemName, unitPrice = p.Name, p.Price
				} else {
					var err error
					if unitPrice, err = model.ParsePrice(price); err != nil {
						return err
					}
				}

				bill, err := app.Engine.AddItem(ctx, args[0], itemName, unitPrice)
				if err != nil {
					return err
				}
				return out.Success(billView{bill})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "item name")
	cmd.Flags().StringVar(&price, "price", "", "unit price")
	cmd.Flags().StringVar(&product, "product", "", "menu product as category/position")
	return cmd
}

func newBillsQtyCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "qty ID POS DELTA",
		Short: "Change the quantity of a line by a signed delta",
		Long: `Change the quantity of a line by a signed delta. A line that drops to
zero or below is removed.

Example:
  cafebill bills qty BILL-1714555800000 1 -- -1`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				index, err := model.ParsePosition(args[1])
				if err != nil {
					return err
				}
				delta, err := model.ParseDelta(args[2])
				if err != nil {
					return err
				}
				bill, err := app.Engine.ChangeQuantity(ctx, args[0], index, delta)
				if err != nil {
					return err
				}
				return out.Success(billView{bill})
			})
		},
	}
}

func newBillsSetQtyCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-qty ID POS QTY",
		Short: "Set the quantity of a line; 0 removes it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				index, err := model.ParsePosition(args[1])
				if err != nil {
					return err
				}
				qty, err := model.ParseQuantity(args[2])
				if err != nil {
					return err
				}
				bill, err := app.Engine.SetQuantity(ctx, args[0], index, qty)
				if err != nil {
					return err
				}
				return out.Success(billView{bill})
			})
		},
	}
}

func newBillsRemoveItemCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-item ID POS",
		Short: "Remove a line from a PENDING bill",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				index, err := model.ParsePosition(args[1])
				if err != nil {
					return err
				}
				bill, err := app.Engine.RemoveItem(ctx, args[0], index)
				if err != nil {
					return err
				}
				return out.Success(billView{bill})
			})
		},
	}
}

func newBillsCompleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID",
		Short: "Mark a bill as COMPLETED",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				bill, err := app.Engine.CompleteBill(ctx, args[0])
				if err != nil {
					return err
				}
				return out.Success(billView{bill})
			})
		},
	}
}

func newBillsCancelCommand(opts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel (delete) a PENDING bill",
		Long: `Cancel a PENDING bill, removing it.

A COMPLETED bill is only removed with --force.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				if !force {
					bill, ok, err := app.Bills.FindByID(ctx, args[0])
					if err != nil {
						return err
					}
					if ok && !bill.IsPending() {
						return model.Errorf(model.ErrBillNotPending,
							"bill %q is %s; use --force to delete it", bill.ID, bill.Status).
							WithDetail("bill_id", bill.ID)
					}
				}

				removed, err := app.Engine.CancelBill(ctx, args[0])
				if err != nil {
					return err
				}
				return out.Success(messageView{
					Message: fmt.Sprintf("Bill %s cancelled.", removed.ID),
					Fields:  map[string]any{"id": removed.ID, "status": removed.Status},
				})
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "also delete a COMPLETED bill")
	return cmd
}

func newBillsListCommand(opts *RootOptions) *cobra.Command {
	var status, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bills, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var want model.Status
			if status != "" {
				want = model.Status(strings.ToUpper(status))
				if !want.Valid() {
					return NewExitError(ExitCommandError,
						fmt.Sprintf("invalid status %q: must be pending or completed", status))
				}
			}
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				all, err := app.Bills.LoadAll(ctx)
				if err != nil {
					return err
				}
				if want != "" {
					all = bills.FilterByStatus(all, want)
				}
				all = bills.FilterBySearchTerm(all, search)
				return out.Success(billListView{Bills: all})
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "pending or completed")
	cmd.Flags().StringVar(&search, "search", "", "match bill id or table (case-insensitive)")
	return cmd
}

func newBillsShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one bill with numbered lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				bill, ok, err := app.Bills.FindByID(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return model.Errorf(model.ErrBillNotFound, "bill %q does not exist", args[0]).
						WithDetail("bill_id", args[0])
				}
				return out.Success(billView{bill})
			})
		},
	}
}

func newBillsPruneCommand(opts *RootOptions) *cobra.Command {
	var days string

	cmd := &cobra.Command{
		Use:   "prune --days N",
		Short: "Delete bills created more than N days ago",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				n, err := model.ParseDays(days)
				if err != nil {
					return err
				}
				removed, err := app.Bills.DeleteOlderThan(ctx, app.Clock.Now(), n)
				if err != nil {
					return err
				}
				return out.Success(messageView{
					Message: fmt.Sprintf("Removed %d bill(s) older than %d day(s).", removed, n),
					Fields:  map[string]any{"removed": removed, "days": n},
				})
			})
		},
	}

	cmd.Flags().StringVar(&days, "days", "", "retention window in days (required)")
	_ = cmd.MarkFlagRequired("days")
	return cmd
}

func newBillsResetCommand(opts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset --yes",
		Short: "Delete every bill; menu and tables are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, "refusing to delete all bills without --yes")
			}
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				if err := app.Bills.DeleteAll(ctx); err != nil {
					return err
				}
				return out.Success(message("All bills deleted."))
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all bills")
	return cmd
}

func newBillsExportCSVCommand(opts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export-csv [-o FILE]",
		Short: "Export all bills as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				all, err := app.Bills.LoadAll(ctx)
				if err != nil {
					return err
				}

				var w io.Writer = cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return WrapExitError(ExitCommandError, "failed to create output file", err)
					}
					defer f.Close()
					w = f
				}
				if err := WriteBillsCSV(w, all); err != nil {
					return WrapExitError(ExitCommandError, "failed to write CSV", err)
				}
				if output != "" {
					out.VerboseLog("wrote %d bills to %s", len(all), output)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
