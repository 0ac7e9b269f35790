package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thucvanminh/mywallet/internal/cli"
	"github.com/thucvanminh/mywallet/internal/report"
	"github.com/thucvanminh/mywallet/internal/sheets"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the current billing cycle to Google Sheets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			config := sheets.Config{
				SpreadsheetID:      viper.GetString("sheets.spreadsheet_id"),
				SpreadsheetName:    viper.GetString("sheets.spreadsheet_name"),
				ServiceAccountPath: viper.GetString("sheets.service_account_path"),
				ClientID:           viper.GetString("sheets.client_id"),
				ClientSecret:       viper.GetString("sheets.client_secret"),
				RefreshToken:       viper.GetString("sheets.refresh_token"),
				TimeZone:           viper.GetString("sheets.timezone"),
			}

			w, store, err := initSession(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			defer w.SignOut()

			writer, err := sheets.NewWriter(ctx, config, slog.Default())
			if err != nil {
				return err
			}

			now := time.Now()
			c := w.CurrentCycle(now)
			txns := w.CycleTransactions(now)
			summary := report.Summarize(c, w.Transactions(), w.Categories())

			if err := writer.Write(ctx, summary, txns, w.Categories()); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d transaction(s) to Google Sheets", len(txns))))
			return nil
		},
	}
}
