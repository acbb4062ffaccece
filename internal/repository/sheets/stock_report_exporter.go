package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/stockpanel/internal/config"
	"github.com/mamadbah2/stockpanel/internal/domain/models"
)

const (
	stockReportRange = "Stock!A:E"
	dateLayout       = "2006-01-02"
)

// Exporter appends daily stock reports to a spreadsheet.
type Exporter interface {
	ExportStockReport(ctx context.Context, report models.StockReport) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// ExportStockReport appends one row: date, product count, stock value,
// low-stock count and the low-stock product names.
func (e *GoogleSheetExporter) ExportStockReport(ctx context.Context, report models.StockReport) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{StockReportRow(report)}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, stockReportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append stock report into range %s: %w", stockReportRange, err)
	}

	e.logger.Debug("stock report appended to sheet", zap.String("range", stockReportRange), zap.Time("date", report.Date))
	return nil
}

// StockReportRow lays a report out as spreadsheet cells.
func StockReportRow(report models.StockReport) []interface{} {
	return []interface{}{
		report.Date.Format(dateLayout),
		report.TotalCount,
		decimal.NewFromFloat(report.TotalValue).StringFixed(2),
		len(report.LowStock),
		strings.Join(report.LowStock, ", "),
	}
}
