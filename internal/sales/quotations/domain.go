// Package quotations records price quotes. A quote prices a basket with the
// catalog's current prices but moves no stock and posts nothing to the
// ledger; it is a priced offer, not a transaction.
package quotations

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/audit"
)

// ErrQuoteNotFound indicates a missing quote row.
var ErrQuoteNotFound = errors.New("quotations: quote not found")

// QuoteLine stores the quantity and the unit price in force when the quote
// was issued.
type QuoteLine struct {
	ID          int64           `json:"id"`
	QuoteID     int64           `json:"quote_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"`
}

// Quote is a priced offer for a customer.
type Quote struct {
	ID          int64           `json:"id"`
	CustomerID  *int64          `json:"customer_id,omitempty"`
	Date        time.Time       `json:"date"`
	ValidUntil  *time.Time      `json:"valid_until,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	Total       decimal.Decimal `json:"total"`
	Notes       *string         `json:"notes,omitempty"`
	Lines       []QuoteLine     `json:"lines"`
	CreatedAt   time.Time       `json:"created_at"`
}

// EntityRef implements audit.Auditable.
func (q Quote) EntityRef() audit.EntityRef {
	return audit.EntityRef{Type: audit.EntityQuote, ID: q.ID}
}

// Snapshot implements audit.Auditable.
func (q Quote) Snapshot() audit.Snapshot {
	return audit.Snapshot{
		"date":         audit.Time(q.Date),
		"valid_until":  audit.TimePtr(q.ValidUntil),
		"subtotal":     audit.Money(q.Subtotal),
		"discount_pct": q.DiscountPct.String(),
		"total":        audit.Money(q.Total),
		"notes":        audit.StringPtr(q.Notes),
		"line_count":   len(q.Lines),
	}
}

// Label is the display name used when audit references resolve this quote.
func (q Quote) Label() string {
	return "Quote #" + strconv.FormatInt(q.ID, 10)
}

// LineInput is one requested quote line.
type LineInput struct {
	ProductID   int64
	Quantity    int
	DiscountPct decimal.Decimal
}

// QuoteInput groups everything needed to issue a quote.
type QuoteInput struct {
	CustomerID  *int64
	ValidUntil  *time.Time
	DiscountPct decimal.Decimal
	Notes       *string
	Lines       []LineInput
}

// Validate checks structural rules before any price lookup.
func (in QuoteInput) Validate() error {
	if len(in.Lines) == 0 {
		return errors.New("quotations: quote needs at least one line")
	}
	for idx, line := range in.Lines {
		if line.ProductID == 0 {
			return fmt.Errorf("quotations: line %d missing product", idx)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("quotations: line %d quantity must be positive", idx)
		}
		if line.DiscountPct.IsNegative() || line.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("quotations: line %d discount out of range", idx)
		}
	}
	if in.DiscountPct.IsNegative() || in.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("quotations: discount percent out of range")
	}
	return nil
}

// ListFilter narrows the quote listing.
type ListFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}
