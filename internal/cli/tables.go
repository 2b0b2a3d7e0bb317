package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/cafebill/internal/model"
)

// NewTablesCommand creates the tables command tree.
func NewTablesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List and register table identifiers",
	}
	cmd.AddCommand(newTablesListCommand(opts), newTablesAddCommand(opts))
	return cmd
}

func newTablesListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tables in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				tables, err := app.Catalog.GetTables(ctx)
				if err != nil {
					return err
				}
				return out.Success(tablesView{Tables: tables})
			})
		},
	}
}

func newTablesAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add VALUE",
		Short: "Register a new table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App, out *OutputFormatter) error {
				if err := app.Catalog.AddTable(ctx, args[0]); err != nil {
					return err
				}
				tables, err := app.Catalog.GetTables(ctx)
				if err != nil {
					return err
				}
				return out.Success(messageView{
					Message: "Table " + model.NormalizeName(args[0]) + " added.",
					Fields:  map[string]any{"tables": tables},
				})
			})
		},
	}
}
