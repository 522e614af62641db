package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/accounting/accounts"
	"github.com/lucero-pos/lucero-pos/internal/accounting/journals"
	"github.com/lucero-pos/lucero-pos/internal/audit"
	"github.com/lucero-pos/lucero-pos/internal/masterdata/products"
	saleshared "github.com/lucero-pos/lucero-pos/internal/sales/shared"
)

// SessionGate reports the open cash session. Posting is refused while no
// session is open.
type SessionGate interface {
	OpenSessionID(ctx context.Context) (int64, error)
}

// Catalog resolves products for pricing and cost lookups.
type Catalog interface {
	Get(ctx context.Context, id int64) (products.Product, error)
}

// Store is the persistence surface the service needs.
type Store interface {
	PostSale(ctx context.Context, sale Sale, entries func(saleID int64) []journals.PostingInput) (Sale, error)
	Get(ctx context.Context, id int64) (Sale, error)
	List(ctx context.Context, filter ListFilter) ([]Sale, error)
}

// AuditPort abstracts the audit recorder.
type AuditPort interface {
	Create(ctx context.Context, module string, entity audit.Auditable, note string) error
}

const auditModule = "sales"

// Service orchestrates the sale pipeline: session gate, price resolution,
// discount math, payment reconciliation, and the double-entry postings.
type Service struct {
	store    Store
	catalog  Catalog
	sessions SessionGate
	audit    AuditPort
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds Service.
func NewService(logger *slog.Logger, store Store, catalog Catalog, sessions SessionGate, auditPort AuditPort) *Service {
	return &Service{store: store, catalog: catalog, sessions: sessions, audit: auditPort, logger: logger, now: time.Now}
}

// Post records a sale. Unit prices come from the catalog at this moment and
// are stored on the lines; the sale's revenue entry debits cash and credits
// sales for the discounted total regardless of what was tendered. Products
// with a known cost contribute to a second entry moving that cost from
// merchandise to cost of goods sold; products without a cost basis simply
// stay out of it.
func (s *Service) Post(ctx context.Context, in SaleInput) (Sale, error) {
	if err := in.Validate(); err != nil {
		return Sale{}, err
	}
	sessionID, err := s.sessions.OpenSessionID(ctx)
	if err != nil {
		return Sale{}, err
	}

	sale := Sale{
		SessionID:     sessionID,
		CustomerID:    in.CustomerID,
		Date:          s.now(),
		DiscountPct:   in.DiscountPct,
		DiscountFixed: in.DiscountFixed,
	}
	subtotal := decimal.Zero
	netSum := decimal.Zero
	costTotal := decimal.Zero
	for _, lineIn := range in.Lines {
		product, err := s.catalog.Get(ctx, lineIn.ProductID)
		if err != nil {
			return Sale{}, err
		}
		lineSubtotal, lineNet := saleshared.LineTotals(lineIn.Quantity, product.SalePrice, lineIn.DiscountPct)
		sale.Lines = append(sale.Lines, SaleLine{
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
		if product.CostPrice != nil {
			costTotal = costTotal.Add(product.CostPrice.Mul(decimal.NewFromInt(int64(lineIn.Quantity))))
		}
	}
	sale.Subtotal = subtotal.Round(2)
	sale.Total = saleshared.OrderTotal(netSum, in.DiscountPct, in.DiscountFixed)

	paid := decimal.Zero
	for _, p := range in.Payments {
		paid = paid.Add(p.Amount)
		if p.Amount.IsPositive() {
			sale.Payments = append(sale.Payments, Payment{Method: p.Method, Amount: p.Amount.Round(2)})
		}
	}
	sale.Paid = paid.Round(2)
	// Negative change records a shortfall; the sale still posts for the full
	// total and the difference is a till reconciliation concern.
	sale.Change = paid.Sub(sale.Total).Round(2)

	entries := func(saleID int64) []journals.PostingInput {
		var postings []journals.PostingInput
		if sale.Total.IsPositive() {
			postings = append(postings, journals.PostingInput{
				Date:         sale.Date,
				Description:  fmt.Sprintf("Sale #%d", saleID),
				Kind:         journals.EntryKindNormal,
				SourceModule: auditModule,
				SourceID:     saleID,
				Lines: []journals.LineInput{
					{AccountCode: accounts.CodeCash, Debit: sale.Total},
					{AccountCode: accounts.CodeSales, Credit: sale.Total},
				},
			})
		}
		if costTotal.IsPositive() {
			postings = append(postings, journals.PostingInput{
				Date:         sale.Date,
				Description:  fmt.Sprintf("Cost of sale #%d", saleID),
				Kind:         journals.EntryKindNormal,
				SourceModule: auditModule,
				SourceID:     saleID,
				Lines: []journals.LineInput{
					{AccountCode: accounts.CodeCOGS, Debit: costTotal.Round(2)},
					{AccountCode: accounts.CodeMerchandise, Credit: costTotal.Round(2)},
				},
			})
		}
		return postings
	}

	posted, err := s.store.PostSale(ctx, sale, entries)
	if err != nil {
		return Sale{}, err
	}
	s.logger.Info("sale posted",
		slog.Int64("sale_id", posted.ID),
		slog.Int64("session_id", posted.SessionID),
		slog.String("total", posted.Total.StringFixed(2)))
	if s.audit != nil {
		_ = s.audit.Create(ctx, auditModule, posted, "sale posted")
	}
	return posted, nil
}

// Get returns one sale.
func (s *Service) Get(ctx context.Context, id int64) (Sale, error) {
	return s.store.Get(ctx, id)
}

// List returns sales matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Sale, error) {
	return s.store.List(ctx, filter)
}
