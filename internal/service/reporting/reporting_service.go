package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockpanel/internal/domain/models"
	"github.com/mamadbah2/stockpanel/internal/service/products"
)

const dateLayout = "2006-01-02"

// StockSource is the product store as seen by the reporting service.
type StockSource interface {
	Load(ctx context.Context) error
	Products() []models.Product
	Source() products.Source
}

// Exporter writes reports to an external spreadsheet.
type Exporter interface {
	ExportStockReport(ctx context.Context, report models.StockReport) error
}

// SnapshotWriter stores point-in-time copies of the inventory.
type SnapshotWriter interface {
	SaveSnapshot(ctx context.Context, snapshot models.InventorySnapshot) error
}

// Notifier delivers text alerts.
type Notifier interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// Service builds the daily stock report and fans it out to the configured
// integrations. Any of exporter, snapshots and notifier may be nil.
type Service struct {
	store     StockSource
	exporter  Exporter
	snapshots SnapshotWriter
	notifier  Notifier
	recipient string
	logger    *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(store StockSource, exporter Exporter, snapshots SnapshotWriter, notifier Notifier, recipient string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		exporter:  exporter,
		snapshots: snapshots,
		notifier:  notifier,
		recipient: recipient,
		logger:    logger,
	}
}

// Generate resynchronises the store and summarises the resulting list.
func (s *Service) Generate(ctx context.Context, now time.Time) (models.StockReport, error) {
	if err := s.store.Load(ctx); err != nil {
		return models.StockReport{}, fmt.Errorf("refresh products for report: %w", err)
	}

	list := s.store.Products()
	stats := products.ComputeStats(list)

	report := models.StockReport{
		Date:         now,
		TotalCount:   stats.TotalCount,
		TotalValue:   stats.TotalValue,
		LowStock:     make([]string, 0, len(stats.LowStock)),
		FromFallback: s.store.Source() == products.SourceFallback,
		Products:     list,
	}
	for _, p := range stats.LowStock {
		report.LowStock = append(report.LowStock, p.Name)
	}
	report.Summary = summarize(report, stats.LowStock)

	return report, nil
}

// Publish exports the report, stores a snapshot and sends a low-stock
// alert, skipping integrations that are not configured. Every integration is
// attempted; failures are logged and the first one is returned.
func (s *Service) Publish(ctx context.Context, report models.StockReport) error {
	var errs []error

	if s.exporter != nil {
		if err := s.exporter.ExportStockReport(ctx, report); err != nil {
			s.logger.Error("failed to export stock report", zap.Error(err))
			errs = append(errs, err)
		}
	}

	// Fallback data must not replace the last real snapshot.
	if s.snapshots != nil && !report.FromFallback {
		snapshot := models.InventorySnapshot{
			TakenAt:       report.Date,
			Products:      report.Products,
			TotalCount:    report.TotalCount,
			TotalValue:    report.TotalValue,
			LowStockCount: len(report.LowStock),
		}
		if err := s.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
			s.logger.Error("failed to save inventory snapshot", zap.Error(err))
			errs = append(errs, err)
		}
	}

	if s.notifier != nil && s.recipient != "" && len(report.LowStock) > 0 {
		if _, err := s.notifier.SendText(ctx, s.recipient, lowStockAlert(report)); err != nil {
			s.logger.Error("failed to send low stock alert", zap.Error(err))
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}

	s.logger.Info("stock report published",
		zap.Int("products", report.TotalCount),
		zap.Int("low_stock", len(report.LowStock)),
		zap.Bool("from_fallback", report.FromFallback))
	return nil
}

// Run generates and publishes in one go.
func (s *Service) Run(ctx context.Context, now time.Time) error {
	report, err := s.Generate(ctx, now)
	if err != nil {
		return err
	}
	return s.Publish(ctx, report)
}

func summarize(report models.StockReport, low []models.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stock report %s: %d products, total value %s.",
		report.Date.Format(dateLayout), report.TotalCount, formatMoney(report.TotalValue))

	if len(low) == 0 {
		b.WriteString(" No products at or below their reorder threshold.")
	} else {
		parts := make([]string, 0, len(low))
		for _, p := range low {
			parts = append(parts, fmt.Sprintf("%s (%d/%d)", p.Name, p.Quantity, p.MinStock))
		}
		fmt.Fprintf(&b, " Low stock (%d): %s.", len(low), strings.Join(parts, ", "))
	}

	if report.FromFallback {
		b.WriteString(" Backend unreachable; figures use fallback data.")
	}
	return b.String()
}

func lowStockAlert(report models.StockReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Low stock alert (%s)", report.Date.Format(dateLayout))
	for _, p := range report.Products {
		if p.LowStock() {
			fmt.Fprintf(&b, "\n- %s: %d left (min %d)", p.Name, p.Quantity, p.MinStock)
		}
	}
	return b.String()
}

func formatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
