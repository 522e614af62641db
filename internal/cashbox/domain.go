// Package cashbox manages point-of-sale cash sessions: a till is opened with
// a counted float, collects the day's takings, and is closed against the
// ledger's view of cash movement.
package cashbox

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/audit"
)

// Status of a cash session. At most one session is OPEN at any time.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

var (
	// ErrSessionAlreadyOpen rejects opening while another session is open.
	ErrSessionAlreadyOpen = errors.New("cashbox: a session is already open")
	// ErrNoOpenSession rejects operations that require an open session.
	ErrNoOpenSession = errors.New("cashbox: no open session")
	// ErrSessionClosed rejects closing a session twice.
	ErrSessionClosed = errors.New("cashbox: session already closed")
	// ErrSessionNotFound indicates a missing session row.
	ErrSessionNotFound = errors.New("cashbox: session not found")
)

// CashSession is one open-to-close till cycle. Expected balance, counted
// balance, and variance are filled in at close and never change afterwards.
type CashSession struct {
	ID              int64            `json:"id"`
	Status          Status           `json:"status"`
	OpenedAt        time.Time        `json:"opened_at"`
	OpenedBy        string           `json:"opened_by"`
	ClosedAt        *time.Time       `json:"closed_at,omitempty"`
	ClosedBy        *string          `json:"closed_by,omitempty"`
	OpeningBalance  decimal.Decimal  `json:"opening_balance"`
	ExpectedBalance *decimal.Decimal `json:"expected_balance,omitempty"`
	CountedBalance  *decimal.Decimal `json:"counted_balance,omitempty"`
	Variance        *decimal.Decimal `json:"variance,omitempty"`
}

// EntityRef implements audit.Auditable.
func (s CashSession) EntityRef() audit.EntityRef {
	return audit.EntityRef{Type: audit.EntityCashSession, ID: s.ID}
}

// Snapshot implements audit.Auditable.
func (s CashSession) Snapshot() audit.Snapshot {
	return audit.Snapshot{
		"status":           string(s.Status),
		"opened_at":        audit.Time(s.OpenedAt),
		"opened_by":        s.OpenedBy,
		"closed_at":        audit.TimePtr(s.ClosedAt),
		"closed_by":        audit.StringPtr(s.ClosedBy),
		"opening_balance":  audit.Money(s.OpeningBalance),
		"expected_balance": audit.MoneyPtr(s.ExpectedBalance),
		"counted_balance":  audit.MoneyPtr(s.CountedBalance),
		"variance":         audit.MoneyPtr(s.Variance),
	}
}

// Label is the display name used when audit references resolve this session.
func (s CashSession) Label() string {
	return "Cash session " + s.OpenedAt.Format("2006-01-02 15:04")
}

// MethodTotal is one payment method's takings within a session.
type MethodTotal struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// ProductTotal is one product's units sold within a session.
type ProductTotal struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// SessionReport summarizes a session for the close screen: sales count,
// takings split by payment method, and units moved per product.
type SessionReport struct {
	Session    CashSession     `json:"session"`
	SalesCount int             `json:"sales_count"`
	SalesTotal decimal.Decimal `json:"sales_total"`
	ByMethod   []MethodTotal   `json:"by_method"`
	ByProduct  []ProductTotal  `json:"by_product"`
}
