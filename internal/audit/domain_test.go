package audit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDiffDetectsChangedFields(t *testing.T) {
	before := Snapshot{
		"name":       "Notebook A5",
		"sale_price": Money(decimal.NewFromFloat(12.50)),
		"stock_qty":  10,
	}
	after := Snapshot{
		"name":       "Notebook A5",
		"sale_price": Money(decimal.NewFromFloat(13.00)),
		"stock_qty":  7,
	}

	changes := Diff(before, after)
	require.Len(t, changes, 2)
	require.Equal(t, FieldChange{Before: "12.50", After: "13.00"}, changes["sale_price"])
	require.Equal(t, FieldChange{Before: 10, After: 7}, changes["stock_qty"])
	require.NotContains(t, changes, "name")
}

func TestDiffIdenticalSnapshotsIsEmpty(t *testing.T) {
	snap := Snapshot{"name": "Pen", "sale_price": "1.00"}
	require.Empty(t, Diff(snap, snap))
}

func TestDiffAddedAndRemovedFields(t *testing.T) {
	before := Snapshot{"barcode": "7790001"}
	after := Snapshot{"brand": "Faber"}

	changes := Diff(before, after)
	require.Equal(t, FieldChange{Before: nil, After: "Faber"}, changes["brand"])
	require.Equal(t, FieldChange{Before: "7790001", After: nil}, changes["barcode"])
}

func TestMoneyPtrNilRendersNil(t *testing.T) {
	require.Nil(t, MoneyPtr(nil))
	v := decimal.NewFromInt(5)
	require.Equal(t, "5.00", MoneyPtr(&v))
}
