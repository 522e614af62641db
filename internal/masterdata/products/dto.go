package products

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/platform/httpx"
)

var validate = validator.New()

// ProductForm is the inbound payload for create and update.
type ProductForm struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Brand       *string `json:"brand,omitempty" validate:"omitempty,max=50"`
	Barcode     *string `json:"barcode,omitempty" validate:"omitempty,max=50"`
	SalePrice   string  `json:"sale_price" validate:"required"`
	CostPrice   *string `json:"cost_price,omitempty"`
	StockQty    int     `json:"stock_qty" validate:"gte=0"`
	ImagePath   *string `json:"image_path,omitempty"`
	CategoryIDs []int64 `json:"category_ids,omitempty"`
}

// ToProduct validates the form and converts monetary strings to decimals.
// Rejection happens here, before any transaction opens.
func (f ProductForm) ToProduct() (Product, error) {
	if err := validate.Struct(f); err != nil {
		return Product{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	salePrice, err := decimal.NewFromString(f.SalePrice)
	if err != nil || salePrice.IsNegative() {
		return Product{}, fmt.Errorf("%w: invalid sale_price", httpx.ErrValidation)
	}
	p := Product{
		Name:      f.Name,
		Brand:     f.Brand,
		Barcode:   f.Barcode,
		SalePrice: salePrice.Round(2),
		StockQty:  f.StockQty,
		ImagePath: f.ImagePath,
	}
	if f.CostPrice != nil {
		costPrice, err := decimal.NewFromString(*f.CostPrice)
		if err != nil || costPrice.IsNegative() {
			return Product{}, fmt.Errorf("%w: invalid cost_price", httpx.ErrValidation)
		}
		rounded := costPrice.Round(2)
		p.CostPrice = &rounded
	}
	return p, nil
}

// AdjustStockForm is the inbound payload for a manual stock adjustment.
type AdjustStockForm struct {
	StockQty int    `json:"stock_qty" validate:"gte=0"`
	Note     string `json:"note" validate:"required,max=500"`
}

// CategoryForm is the inbound payload for creating a category.
type CategoryForm struct {
	Name string `json:"name" validate:"required,max=100"`
}
