package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/chris/donation-ledger/pkg/bootstrap"
	"github.com/chris/donation-ledger/pkg/config"
	"github.com/chris/donation-ledger/pkg/mapping"
	"github.com/spf13/cobra"
)

// opener wires the services a command runs against.
type opener func(ctx context.Context) (*bootstrap.App, error)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operate the donation ledger",
		Long: `ledgerctl runs the ledger's maintenance jobs by hand.

It reads the same environment as the service binaries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSweepCmd(open))
	root.AddCommand(newReconcileCmd(open))
	root.AddCommand(newReviewsCmd(open))
	root.AddCommand(newMigrateCmd(open))
	return root
}

// withApp opens the App for the duration of fn.
func withApp(cmd *cobra.Command, open opener, fn func(ctx context.Context, app *bootstrap.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := open(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSweepCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire abandoned donations, close ended campaigns and audit totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, app *bootstrap.App) error {
				report, err := app.Sweeper.Run(ctx)
				if printErr := printJSON(cmd.OutOrStdout(), report); printErr != nil {
					return printErr
				}
				return err
			})
		},
	}
}

func newReconcileCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [campaign-id]",
		Short: "Recompute a campaign's totals from its donations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, app *bootstrap.App) error {
				audit, err := app.Ledger.ReconcileTotals(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), mapping.ToApiTotalsAudit(audit))
			})
		},
	}
}

func newReviewsCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "List events waiting for manual review",
		Args:  cobra.NoArgs,
	}
	limit := cmd.Flags().Int32("limit", 50, "Number of review items to show")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if *limit < 1 {
			return errors.New("--limit must be at least 1")
		}
		return withApp(cmd, open, func(ctx context.Context, app *bootstrap.App) error {
			items, err := app.Store.ListReviews(ctx, *limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No review items.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CREATED\tKIND\tREFERENCE\tDONATION\tDETAIL")
			for _, item := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					item.CreatedAt.Format(time.RFC3339), item.Kind, item.ProviderReference, item.DonationId, item.Detail)
			}
			return tw.Flush()
		})
	}
	return cmd
}

func newMigrateCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQLite schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(ctx context.Context, app *bootstrap.App) error {
				if app.Config.StorageBackend != config.BackendSQLite {
					return fmt.Errorf("migrate only applies to the sqlite backend, not %s", app.Config.StorageBackend)
				}
				// Opening the store already applied pending migrations.
				fmt.Fprintf(cmd.OutOrStdout(), "Schema at %s is up to date.\n", app.Config.SQLitePath)
				return nil
			})
		},
	}
}
