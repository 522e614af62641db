package customers

import (
	"errors"
	"time"

	"github.com/lucero-pos/lucero-pos/internal/audit"
)

// Customer is reference data optionally linked from sales and quotes. A sale
// with no customer is a walk-in.
type Customer struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	DocNumber *string    `json:"doc_number,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Address   *string    `json:"address,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	Email     *string    `json:"email,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ErrCustomerNotFound indicates a missing customer row.
var ErrCustomerNotFound = errors.New("customers: customer not found")

// Label renders "Last, First" for receipts and audit references.
func (c Customer) Label() string {
	return c.LastName + ", " + c.FirstName
}

// EntityRef implements audit.Auditable.
func (c Customer) EntityRef() audit.EntityRef {
	return audit.EntityRef{Type: audit.EntityCustomer, ID: c.ID}
}

// Snapshot implements audit.Auditable.
func (c Customer) Snapshot() audit.Snapshot {
	return audit.Snapshot{
		"first_name": c.FirstName,
		"last_name":  c.LastName,
		"doc_number": audit.StringPtr(c.DocNumber),
		"birth_date": audit.TimePtr(c.BirthDate),
		"address":    audit.StringPtr(c.Address),
		"phone":      audit.StringPtr(c.Phone),
		"email":      audit.StringPtr(c.Email),
	}
}
