package products

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/audit"
)

// Category groups products (e.g. stationery vs haberdashery).
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is shared master data mutated by sales (stock decrement), purchases
// (stock increment plus cost overwrite), and manual adjustments.
type Product struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	Brand      *string          `json:"brand,omitempty"`
	Barcode    *string          `json:"barcode,omitempty"`
	SalePrice  decimal.Decimal  `json:"sale_price"`
	CostPrice  *decimal.Decimal `json:"cost_price,omitempty"`
	StockQty   int              `json:"stock_qty"`
	ImagePath  *string          `json:"image_path,omitempty"`
	Categories []Category       `json:"categories,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// ErrInsufficientStock triggered when a sale would drive stock below zero.
var ErrInsufficientStock = errors.New("products: insufficient stock")

// ErrProductNotFound indicates a missing product row.
var ErrProductNotFound = errors.New("products: product not found")

// EntityRef implements audit.Auditable.
func (p Product) EntityRef() audit.EntityRef {
	return audit.EntityRef{Type: audit.EntityProduct, ID: p.ID}
}

// Snapshot implements audit.Auditable. Categories render as their names and
// the image as its storage path, keeping the log human-readable.
func (p Product) Snapshot() audit.Snapshot {
	names := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		names = append(names, c.Name)
	}
	return audit.Snapshot{
		"name":       p.Name,
		"brand":      audit.StringPtr(p.Brand),
		"barcode":    audit.StringPtr(p.Barcode),
		"sale_price": audit.Money(p.SalePrice),
		"cost_price": audit.MoneyPtr(p.CostPrice),
		"stock_qty":  p.StockQty,
		"image":      audit.StringPtr(p.ImagePath),
		"categories": strings.Join(names, ", "),
	}
}

// Label is the display name used when audit references resolve this product.
func (p Product) Label() string {
	if p.Brand != nil && *p.Brand != "" {
		return p.Name + " (" + *p.Brand + ")"
	}
	return p.Name
}
