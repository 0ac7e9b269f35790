package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/thucvanminh/mywallet/internal/common"
	"github.com/thucvanminh/mywallet/internal/model"
	"github.com/thucvanminh/mywallet/internal/report"
	"github.com/thucvanminh/mywallet/internal/service"
)

// Writer writes billing-cycle reports to a Google Sheets spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	config = config.withDefaults()

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Write exports one cycle summary plus its transactions. Writes are retried
// with backoff; the report is regenerated wholesale on every export.
func (w *Writer) Write(ctx context.Context, summary *report.CycleSummary, txns []model.Transaction, categories []model.Category) error {
	w.logger.Info("starting report export",
		"transactions", len(txns),
		"cycle", fmt.Sprintf("%s to %s",
			summary.Cycle.Start.Format("2006-01-02"),
			summary.Cycle.End.Format("2006-01-02")))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	values := w.prepareReportData(summary, txns, categories)

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	w.logger.Info("report export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created spreadsheet", "spreadsheet_id", created.SpreadsheetId)
	return created.SpreadsheetId, nil
}

// prepareReportData lays out the report: cycle header, category breakdown,
// then one row per transaction, newest first.
func (w *Writer) prepareReportData(summary *report.CycleSummary, txns []model.Transaction, categories []model.Category) [][]any {
	byID := make(map[string]model.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}

	values := [][]any{
		{"Billing Cycle", summary.Cycle.Start.Format("2006-01-02"), summary.Cycle.End.Format("2006-01-02")},
		{"Income", summary.TotalIncome},
		{"Expense", summary.TotalExpense},
		{"Net", summary.Net()},
		{},
		{"Category", "Type", "Count", "Amount"},
	}

	for _, total := range summary.ByCategory {
		values = append(values, []any{total.Name, string(total.Type), total.Count, total.Amount})
	}

	values = append(values, []any{}, []any{"Date", "Category", "Amount", "Note"})
	for _, txn := range summary.Cycle.Filter(txns) {
		name := report.UnknownCategory
		if cat, ok := byID[txn.CategoryID]; ok {
			name = cat.Name
		}
		values = append(values, []any{txn.Date.Format("2006-01-02"), name, txn.Amount, txn.Note})
	}

	return values
}

// writeData clears the sheet and writes the full report.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	clearReq := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{})
	if _, err := clearReq.Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}

	valueRange := &sheets.ValueRange{Values: values}
	updateReq := w.service.Spreadsheets.Values.Update(spreadsheetID, "A1", valueRange).
		ValueInputOption("USER_ENTERED")
	if _, err := updateReq.Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update values: %w", err)
	}

	return nil
}
