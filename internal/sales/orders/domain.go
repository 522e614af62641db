// Package orders records point-of-sale transactions: stock movement, payment
// capture, and ledger postings committed as one unit.
package orders

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/audit"
)

// PaymentMethod enumerates accepted tender types.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodCard     PaymentMethod = "CARD"
	MethodTransfer PaymentMethod = "TRANSFER"
)

// ErrSaleNotFound indicates a missing sale row.
var ErrSaleNotFound = errors.New("orders: sale not found")

// Payment is one tender against a sale.
type Payment struct {
	ID     int64           `json:"id"`
	SaleID int64           `json:"sale_id"`
	Method PaymentMethod   `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleLine stores the quantity and the unit price in force when the sale was
// recorded. Later price changes never alter historical sales.
type SaleLine struct {
	ID          int64           `json:"id"`
	SaleID      int64           `json:"sale_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"`
}

// Sale is one completed point-of-sale transaction. Change is paid minus
// total; a negative value records a shortfall the till operator settles
// outside the system.
type Sale struct {
	ID            int64           `json:"id"`
	SessionID     int64           `json:"session_id"`
	CustomerID    *int64          `json:"customer_id,omitempty"`
	Date          time.Time       `json:"date"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountPct   decimal.Decimal `json:"discount_pct"`
	DiscountFixed decimal.Decimal `json:"discount_fixed"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	Change        decimal.Decimal `json:"change"`
	Lines         []SaleLine      `json:"lines"`
	Payments      []Payment       `json:"payments"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EntityRef implements audit.Auditable.
func (s Sale) EntityRef() audit.EntityRef {
	return audit.EntityRef{Type: audit.EntitySale, ID: s.ID}
}

// Snapshot implements audit.Auditable.
func (s Sale) Snapshot() audit.Snapshot {
	return audit.Snapshot{
		"date":           audit.Time(s.Date),
		"session_id":     s.SessionID,
		"subtotal":       audit.Money(s.Subtotal),
		"discount_pct":   s.DiscountPct.String(),
		"discount_fixed": audit.Money(s.DiscountFixed),
		"total":          audit.Money(s.Total),
		"paid":           audit.Money(s.Paid),
		"change":         audit.Money(s.Change),
		"line_count":     len(s.Lines),
	}
}

// Label is the display name used when audit references resolve this sale.
func (s Sale) Label() string {
	return "Sale #" + strconv.FormatInt(s.ID, 10)
}

// LineInput is one requested sale line. The unit price is never taken from
// the client; it is resolved from the catalog at posting time.
type LineInput struct {
	ProductID   int64
	Quantity    int
	DiscountPct decimal.Decimal
}

// PaymentInput is one tender in a posting request.
type PaymentInput struct {
	Method PaymentMethod
	Amount decimal.Decimal
}

// SaleInput groups everything needed to post a sale.
type SaleInput struct {
	CustomerID    *int64
	Lines         []LineInput
	DiscountPct   decimal.Decimal
	DiscountFixed decimal.Decimal
	Payments      []PaymentInput
}

var knownMethods = map[PaymentMethod]bool{MethodCash: true, MethodCard: true, MethodTransfer: true}

// Validate checks structural rules before any price or stock lookup.
func (in SaleInput) Validate() error {
	if len(in.Lines) == 0 {
		return errors.New("orders: sale needs at least one line")
	}
	for idx, line := range in.Lines {
		if line.ProductID == 0 {
			return fmt.Errorf("orders: line %d missing product", idx)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("orders: line %d quantity must be positive", idx)
		}
		if line.DiscountPct.IsNegative() || line.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("orders: line %d discount out of range", idx)
		}
	}
	if in.DiscountPct.IsNegative() || in.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("orders: discount percent out of range")
	}
	if in.DiscountFixed.IsNegative() {
		return errors.New("orders: fixed discount cannot be negative")
	}
	for idx, p := range in.Payments {
		if !knownMethods[p.Method] {
			return fmt.Errorf("orders: payment %d has unknown method %q", idx, p.Method)
		}
		if p.Amount.IsNegative() {
			return fmt.Errorf("orders: payment %d amount cannot be negative", idx)
		}
	}
	return nil
}

// ListFilter narrows the sales listing.
type ListFilter struct {
	From      time.Time
	To        time.Time
	SessionID int64
	Limit     int
}
