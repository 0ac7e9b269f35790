package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thucvanminh/mywallet/internal/cli"
	"github.com/thucvanminh/mywallet/internal/report"
)

func statsCmd() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show a monthly income/expense overview",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if months < 1 || months > 24 {
				return fmt.Errorf("months must be between 1 and 24")
			}

			w, store, err := initSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			defer w.SignOut()

			overview := report.MonthlyOverview(time.Now(), months, w.Transactions(), w.Categories())

			fmt.Println(cli.TitleStyle.Render(cli.ChartIcon + " Monthly overview"))

			max := 0.0
			for _, m := range overview {
				if m.Income > max {
					max = m.Income
				}
				if m.Expense > max {
					max = m.Expense
				}
			}

			for _, m := range overview {
				label := fmt.Sprintf("%s %d", m.Month.String()[:3], m.Year)
				fmt.Printf("  %s  %s %10.2f\n", label,
					cli.SuccessStyle.Render(bar(m.Income, max)), m.Income)
				fmt.Printf("           %s %10.2f\n",
					cli.ErrorStyle.Render(bar(m.Expense, max)), m.Expense)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&months, "months", 6, "number of trailing months to show")

	return cmd
}

// bar scales value against max into a fixed-width text bar.
func bar(value, max float64) string {
	const width = 30
	if max <= 0 {
		return strings.Repeat(" ", width)
	}
	filled := int(value / max * width)
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat(" ", width-filled)
}
