// Package audit captures before/after snapshots of entity mutations into an
// append-only change log. Each audited entity type implements Auditable with
// its own snapshot serialization; there is no runtime reflection.
package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Action enumerates recorded operations.
type Action string

const (
	ActionCreate           Action = "CREATE"
	ActionUpdate           Action = "UPDATE"
	ActionDelete           Action = "DELETE"
	ActionLogin            Action = "LOGIN"
	ActionLogout           Action = "LOGOUT"
	ActionManualAdjustment Action = "MANUAL_ADJUSTMENT"
)

// EntityType keys the fixed allow-list of audited entities.
type EntityType string

const (
	EntityProduct     EntityType = "PRODUCT"
	EntityCustomer    EntityType = "CUSTOMER"
	EntitySupplier    EntityType = "SUPPLIER"
	EntitySale        EntityType = "SALE"
	EntityQuote       EntityType = "QUOTE"
	EntityPurchase    EntityType = "PURCHASE"
	EntityCashSession EntityType = "CASH_SESSION"
	EntityJournal     EntityType = "JOURNAL_ENTRY"
	EntityUser        EntityType = "USER"
)

// EntityRef points at one audited entity: a type tag plus numeric id, instead
// of a generic foreign key.
type EntityRef struct {
	Type EntityType `json:"type"`
	ID   int64      `json:"id"`
}

// Snapshot is a flat field-to-value map of an entity's state. Values must be
// JSON-friendly and human-readable: money as fixed two-decimal strings, times
// as RFC 3339, file references as their path, related entities as their
// display label.
type Snapshot map[string]any

// Auditable is implemented by every entity type on the allow-list.
type Auditable interface {
	EntityRef() EntityRef
	Snapshot() Snapshot
}

// FieldChange holds one field's before and after values.
type FieldChange struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

// Diff compares two snapshots field by field. An empty result means the
// mutation was a no-op and no event should be recorded.
func Diff(before, after Snapshot) map[string]FieldChange {
	changes := map[string]FieldChange{}
	for field, afterValue := range after {
		beforeValue, ok := before[field]
		if !ok || beforeValue != afterValue {
			changes[field] = FieldChange{Before: beforeValue, After: afterValue}
		}
	}
	for field, beforeValue := range before {
		if _, ok := after[field]; !ok {
			changes[field] = FieldChange{Before: beforeValue, After: nil}
		}
	}
	return changes
}

// Event is one record in the change log. Created, never mutated.
type Event struct {
	ID       uuid.UUID              `json:"id"`
	At       time.Time              `json:"at"`
	Actor    string                 `json:"actor,omitempty"`
	SourceIP string                 `json:"source_ip,omitempty"`
	Module   string                 `json:"module"`
	Action   Action                 `json:"action"`
	Entity   EntityRef              `json:"entity"`
	Before   Snapshot               `json:"before,omitempty"`
	After    Snapshot               `json:"after,omitempty"`
	Changes  map[string]FieldChange `json:"changes,omitempty"`
	Note     string                 `json:"note,omitempty"`
}

// Money renders a monetary value for a snapshot.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// MoneyPtr renders an optional monetary value.
func MoneyPtr(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.StringFixed(2)
}

// Time renders a timestamp for a snapshot.
func Time(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// TimePtr renders an optional timestamp.
func TimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return Time(*t)
}

// StringPtr renders an optional text field.
func StringPtr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
