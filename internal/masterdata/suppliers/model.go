package suppliers

import (
	"errors"
	"time"

	"github.com/lucero-pos/lucero-pos/internal/audit"
)

// Supplier is reference data linked from purchases.
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TaxID     *string   `json:"tax_id,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrSupplierNotFound indicates a missing supplier row.
var ErrSupplierNotFound = errors.New("suppliers: supplier not found")

// EntityRef implements audit.Auditable.
func (s Supplier) EntityRef() audit.EntityRef {
	return audit.EntityRef{Type: audit.EntitySupplier, ID: s.ID}
}

// Label is the display name used when audit references resolve this supplier.
func (s Supplier) Label() string {
	return s.Name
}

// Snapshot implements audit.Auditable.
func (s Supplier) Snapshot() audit.Snapshot {
	return audit.Snapshot{
		"name":    s.Name,
		"tax_id":  audit.StringPtr(s.TaxID),
		"address": audit.StringPtr(s.Address),
		"phone":   audit.StringPtr(s.Phone),
		"email":   audit.StringPtr(s.Email),
	}
}
