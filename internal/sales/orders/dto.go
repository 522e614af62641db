package orders

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/platform/httpx"
)

var validate = validator.New()

// SaleLineForm is one requested line in the posting request body.
type SaleLineForm struct {
	ProductID   int64  `json:"product_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	DiscountPct string `json:"discount_pct"`
}

// PaymentForm is one tender in the posting request body. A missing amount
// counts as zero.
type PaymentForm struct {
	Method string `json:"method" validate:"required,oneof=CASH CARD TRANSFER"`
	Amount string `json:"amount"`
}

// SaleForm is the posting request body. Amounts travel as strings and are
// parsed into exact decimals.
type SaleForm struct {
	CustomerID    *int64         `json:"customer_id"`
	Lines         []SaleLineForm `json:"lines" validate:"required,min=1,dive"`
	DiscountPct   string         `json:"discount_pct"`
	DiscountFixed string         `json:"discount_fixed"`
	Payments      []PaymentForm  `json:"payments" validate:"dive"`
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s is not a valid amount", httpx.ErrValidation, field)
	}
	return d, nil
}

// ToInput validates the form and converts it to a SaleInput.
func (f SaleForm) ToInput() (SaleInput, error) {
	if err := validate.Struct(f); err != nil {
		return SaleInput{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	in := SaleInput{CustomerID: f.CustomerID}
	var err error
	if in.DiscountPct, err = parseAmount("discount_pct", f.DiscountPct); err != nil {
		return SaleInput{}, err
	}
	if in.DiscountFixed, err = parseAmount("discount_fixed", f.DiscountFixed); err != nil {
		return SaleInput{}, err
	}
	for _, line := range f.Lines {
		pct, err := parseAmount("lines.discount_pct", line.DiscountPct)
		if err != nil {
			return SaleInput{}, err
		}
		in.Lines = append(in.Lines, LineInput{ProductID: line.ProductID, Quantity: line.Quantity, DiscountPct: pct})
	}
	for _, p := range f.Payments {
		amount, err := parseAmount("payments.amount", p.Amount)
		if err != nil {
			return SaleInput{}, err
		}
		in.Payments = append(in.Payments, PaymentInput{Method: PaymentMethod(p.Method), Amount: amount})
	}
	return in, nil
}
