// Package procurement records stock purchases: goods received from a
// supplier, stock and cost basis updated, and the matching ledger entry
// posted in the same transaction.
package procurement

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/audit"
)

// PaymentKind says how a purchase was settled. Cash purchases credit the
// cash account; credit purchases credit the suppliers account.
type PaymentKind string

const (
	PaymentCash   PaymentKind = "CASH"
	PaymentCredit PaymentKind = "CREDIT"
)

var (
	// ErrPurchaseNotFound indicates a missing purchase row.
	ErrPurchaseNotFound = errors.New("procurement: purchase not found")
)

// PurchaseLine is one received product with its negotiated unit cost.
type PurchaseLine struct {
	ID          int64           `json:"id"`
	PurchaseID  int64           `json:"purchase_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Total       decimal.Decimal `json:"total"`
}

// Purchase is one goods receipt from a supplier.
type Purchase struct {
	ID           int64           `json:"id"`
	SupplierID   int64           `json:"supplier_id"`
	SupplierName string          `json:"supplier_name,omitempty"`
	Date         time.Time       `json:"date"`
	Payment      PaymentKind     `json:"payment"`
	Invoice      *string         `json:"invoice,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Lines        []PurchaseLine  `json:"lines"`
	CreatedAt    time.Time       `json:"created_at"`
}

// EntityRef implements audit.Auditable.
func (p Purchase) EntityRef() audit.EntityRef {
	return audit.EntityRef{Type: audit.EntityPurchase, ID: p.ID}
}

// Snapshot implements audit.Auditable.
func (p Purchase) Snapshot() audit.Snapshot {
	return audit.Snapshot{
		"date":        audit.Time(p.Date),
		"supplier_id": p.SupplierID,
		"payment":     string(p.Payment),
		"invoice":     audit.StringPtr(p.Invoice),
		"total":       audit.Money(p.Total),
		"line_count":  len(p.Lines),
	}
}

// Label is the display name used when audit references resolve this purchase.
func (p Purchase) Label() string {
	return "Purchase #" + strconv.FormatInt(p.ID, 10)
}

// LineInput is one requested purchase line. Unlike sales, the unit cost is
// supplied by the caller; it is the supplier's price, not catalog data.
type LineInput struct {
	ProductID int64
	Quantity  int
	UnitCost  decimal.Decimal
}

// PurchaseInput groups everything needed to record a purchase.
type PurchaseInput struct {
	SupplierID int64
	Payment    PaymentKind
	Invoice    *string
	Lines      []LineInput
}

// Validate checks structural rules before any stock mutation.
func (in PurchaseInput) Validate() error {
	if in.SupplierID == 0 {
		return errors.New("procurement: supplier is required")
	}
	if in.Payment != PaymentCash && in.Payment != PaymentCredit {
		return fmt.Errorf("procurement: unknown payment kind %q", in.Payment)
	}
	if len(in.Lines) == 0 {
		return errors.New("procurement: purchase needs at least one line")
	}
	for idx, line := range in.Lines {
		if line.ProductID == 0 {
			return fmt.Errorf("procurement: line %d missing product", idx)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("procurement: line %d quantity must be positive", idx)
		}
		if line.UnitCost.IsNegative() {
			return fmt.Errorf("procurement: line %d unit cost cannot be negative", idx)
		}
	}
	return nil
}

// ListFilter narrows the purchase listing.
type ListFilter struct {
	From       time.Time
	To         time.Time
	SupplierID int64
	Limit      int
}
