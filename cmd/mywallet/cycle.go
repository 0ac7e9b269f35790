package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thucvanminh/mywallet/internal/cli"
	"github.com/thucvanminh/mywallet/internal/report"
)

func cycleCmd() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Show the current billing cycle and its balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			now := time.Now()
			if asOf != "" {
				parsed, err := time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", asOf, err)
				}
				now = parsed
			}

			w, store, err := initSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			defer w.SignOut()

			c := w.CurrentCycle(now)

			// Aggregate in the database rather than over the session cache,
			// so the command stays cheap on large histories.
			sums, err := store.SumByCategory(ctx, w.Profile().ID, c.Start, c.End)
			if err != nil {
				return fmt.Errorf("failed to aggregate cycle: %w", err)
			}
			summary := report.SummarizeSums(c, sums, w.Categories())

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Billing cycle %s to %s",
				c.Start.Format("Jan 2, 2006"), c.End.Format("Jan 2, 2006"))))
			fmt.Printf("  Income:   %s\n", cli.SuccessStyle.Render(fmt.Sprintf("%.2f", summary.TotalIncome)))
			fmt.Printf("  Expenses: %s\n", cli.ErrorStyle.Render(fmt.Sprintf("%.2f", summary.TotalExpense)))

			net := summary.Net()
			netStyle := cli.SuccessStyle
			if net < 0 {
				netStyle = cli.ErrorStyle
			}
			fmt.Printf("  Net:      %s\n", netStyle.Render(fmt.Sprintf("%.2f", net)))
			fmt.Printf("  Transactions: %d\n", summary.Count)

			if len(summary.ByCategory) > 0 {
				fmt.Println()
				tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "  %s\t%s\t%s\n",
					cli.BoldStyle.Render("Category"),
					cli.BoldStyle.Render("Count"),
					cli.BoldStyle.Render("Amount"))
				for _, total := range summary.ByCategory {
					fmt.Fprintf(tw, "  %s\t%d\t%.2f\n", total.Name, total.Count, total.Amount)
				}
				_ = tw.Flush()
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "compute the cycle containing this date (YYYY-MM-DD, default today)")

	return cmd
}
