package procurement

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
)

// Catalog resolves products for name capture and existence checks.
type Catalog interface {
	Get(ctx context.Context, id int64) (products.Product, error)
}

// Store is the persistence surface the service needs.
type Store interface {
	PostPurchase(ctx context.Context, p Purchase, entries func(purchaseID int64) []journals.PostingInput) (Purchase, error)
	Get(ctx context.Context, id int64) (Purchase, error)
	List(ctx context.Context, filter ListFilter) ([]Purchase, error)
}

// AuditPort abstracts the audit recorder.
type AuditPort interface {
	Create(ctx context.Context, module string, entity audit.Auditable, note string) error
}

const auditModule = "procurement"

// Service orchestrates the purchase pipeline.
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

// Post records a purchase. Each line's product gains stock and takes the
// line's unit cost as its new cost basis. The ledger entry debits
// merchandise for the total; the credit side is cash for cash purchases and
// suppliers for credit purchases.
func (s *Service) Post(ctx context.Context, in PurchaseInput) (Purchase, error) {
	if err := in.Validate(); err != nil {
		return Purchase{}, err
	}
	purchase := Purchase{
		SupplierID: in.SupplierID,
		Date:       s.now(),
		Payment:    in.Payment,
		Invoice:    in.Invoice,
	}
	total := decimal.Zero
	for _, lineIn := range in.Lines {
		product, err := s.catalog.Get(ctx, lineIn.ProductID)
		if err != nil {
			return Purchase{}, err
		}
		lineTotal := lineIn.UnitCost.Mul(decimal.NewFromInt(int64(lineIn.Quantity))).Round(2)
		purchase.Lines = append(purchase.Lines, PurchaseLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    lineIn.Quantity,
			UnitCost:    lineIn.UnitCost,
			Total:       lineTotal,
		})
		total = total.Add(lineTotal)
	}
	purchase.Total = total.Round(2)

	creditAccount := accounts.CodeSuppliers
	if in.Payment == PaymentCash {
		creditAccount = accounts.CodeCash
	}
	entries := func(purchaseID int64) []journals.PostingInput {
		if !purchase.Total.IsPositive() {
			return nil
		}
		return []journals.PostingInput{{
			Date:         purchase.Date,
			Description:  fmt.Sprintf("Purchase #%d", purchaseID),
			Kind:         journals.EntryKindNormal,
			SourceModule: auditModule,
			SourceID:     purchaseID,
			Lines: []journals.LineInput{
				{AccountCode: accounts.CodeMerchandise, Debit: purchase.Total},
				{AccountCode: creditAccount, Credit: purchase.Total},
			},
		}}
	}

	posted, err := s.store.PostPurchase(ctx, purchase, entries)
	if err != nil {
		return Purchase{}, err
	}
	s.logger.Info("purchase posted",
		slog.Int64("purchase_id", posted.ID),
		slog.Int64("supplier_id", posted.SupplierID),
		slog.String("total", posted.Total.StringFixed(2)))
	if s.audit != nil {
		_ = s.audit.Create(ctx, auditModule, posted, "purchase posted")
	}
	return posted, nil
}

// Get returns one purchase.
func (s *Service) Get(ctx context.Context, id int64) (Purchase, error) {
	return s.store.Get(ctx, id)
}

// List returns purchases matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Purchase, error) {
	return s.store.List(ctx, filter)
}
