package quotations

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/audit"
	"github.com/lucero-pos/lucero-pos/internal/masterdata/products"
	saleshared "github.com/lucero-pos/lucero-pos/internal/sales/shared"
)

// Catalog resolves products for pricing.
type Catalog interface {
	Get(ctx context.Context, id int64) (products.Product, error)
}

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, q Quote) (Quote, error)
	Get(ctx context.Context, id int64) (Quote, error)
	List(ctx context.Context, filter ListFilter) ([]Quote, error)
}

// AuditPort abstracts the audit recorder.
type AuditPort interface {
	Create(ctx context.Context, module string, entity audit.Auditable, note string) error
}

const auditModule = "sales"

// Service issues quotes using the same pricing rules as sales.
type Service struct {
	store   Store
	catalog Catalog
	audit   AuditPort
	logger  *slog.Logger
	now     func() time.Time
}

// NewService builds Service.
func NewService(logger *slog.Logger, store Store, catalog Catalog, auditPort AuditPort) *Service {
	return &Service{store: store, catalog: catalog, audit: auditPort, logger: logger, now: time.Now}
}

// Create prices the basket with current catalog prices and stores the quote.
// Stock and the ledger are untouched.
func (s *Service) Create(ctx context.Context, in QuoteInput) (Quote, error) {
	if err := in.Validate(); err != nil {
		return Quote{}, err
	}
	quote := Quote{
		CustomerID:  in.CustomerID,
		Date:        s.now(),
		ValidUntil:  in.ValidUntil,
		DiscountPct: in.DiscountPct,
		Notes:       in.Notes,
	}
	subtotal := decimal.Zero
	netSum := decimal.Zero
	for _, lineIn := range in.Lines {
		product, err := s.catalog.Get(ctx, lineIn.ProductID)
		if err != nil {
			return Quote{}, err
		}
		lineSubtotal, lineNet := saleshared.LineTotals(lineIn.Quantity, product.SalePrice, lineIn.DiscountPct)
		quote.Lines = append(quote.Lines, QuoteLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    lineIn.Quantity,
			UnitPrice:   product.SalePrice,
			DiscountPct: lineIn.DiscountPct,
			Subtotal:    lineSubtotal,
			Total:       lineNet,
		})
		subtotal = subtotal.Add(lineSubtotal)
		netSum = netSum.Add(lineNet)
	}
	quote.Subtotal = subtotal.Round(2)
	quote.Total = saleshared.OrderTotal(netSum, in.DiscountPct, decimal.Zero)

	created, err := s.store.Create(ctx, quote)
	if err != nil {
		return Quote{}, err
	}
	s.logger.Info("quote issued",
		slog.Int64("quote_id", created.ID),
		slog.String("total", created.Total.StringFixed(2)))
	if s.audit != nil {
		_ = s.audit.Create(ctx, auditModule, created, "quote issued")
	}
	return created, nil
}

// Get returns one quote.
func (s *Service) Get(ctx context.Context, id int64) (Quote, error) {
	return s.store.Get(ctx, id)
}

// List returns quotes matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Quote, error) {
	return s.store.List(ctx, filter)
}
