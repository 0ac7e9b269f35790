package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thucvanminh/mywallet/internal/cli"
	"github.com/thucvanminh/mywallet/internal/model"
	"github.com/thucvanminh/mywallet/internal/report"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(listTxCmd())
	cmd.AddCommand(deleteTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		note    string
		dateStr string
	)

	cmd := &cobra.Command{
		Use:   "add <category> <amount>",
		Short: "Record a transaction against a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			if amount < 0 {
				return fmt.Errorf("amount must be non-negative")
			}

			date := time.Now()
			if dateStr != "" {
				date, err = time.Parse("2006-01-02", dateStr)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", dateStr, err)
				}
			}

			w, store, err := initSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			defer w.SignOut()

			cat, err := store.GetCategoryByName(ctx, w.Profile().ID, args[0])
			if err != nil {
				return fmt.Errorf("unknown category %q: %w", args[0], err)
			}

			created, err := w.CreateTransaction(ctx, &model.Transaction{
				CategoryID: cat.ID,
				Amount:     amount,
				Note:       note,
				Date:       date,
			})
			if err != nil {
				return fmt.Errorf("failed to create transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %.2f against %s (%s)", created.Amount, cat.Name, created.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "free-text note")
	cmd.Flags().StringVar(&dateStr, "date", "", "economic date (YYYY-MM-DD, default today)")

	return cmd
}

func listTxCmd() *cobra.Command {
	var cycleOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			w, store, err := initSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			defer w.SignOut()

			txns := w.Transactions()
			if cycleOnly {
				txns = w.CycleTransactions(time.Now())
			}

			if len(txns) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found."))
				return nil
			}

			byID := make(map[string]model.Category)
			for _, cat := range w.Categories() {
				byID[cat.ID] = cat
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = tw.Flush() }()

			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Date"),
				cli.BoldStyle.Render("Category"),
				cli.BoldStyle.Render("Amount"),
				cli.BoldStyle.Render("Note"))

			for _, txn := range txns {
				name := report.UnknownCategory
				if cat, ok := byID[txn.CategoryID]; ok {
					name = cat.Name
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n",
					txn.ID, txn.Date.Format("2006-01-02"), name, txn.Amount, txn.Note)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&cycleOnly, "cycle", false, "only transactions in the current billing cycle")

	return cmd
}

func deleteTxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			w, store, err := initSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			defer w.SignOut()

			if err := w.DeleteTransaction(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Transaction deleted"))
			return nil
		},
	}
}
