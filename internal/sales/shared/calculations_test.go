package shared

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineTotals(t *testing.T) {
	subtotal, net := LineTotals(2, dec("50.00"), decimal.Zero)
	require.True(t, subtotal.Equal(dec("100.00")), "subtotal %s", subtotal)
	require.True(t, net.Equal(dec("100.00")), "net %s", net)

	_, net = LineTotals(3, dec("10.00"), dec("10"))
	require.True(t, net.Equal(dec("27.00")), "net %s", net)

	// Exact decimal math: 3 × 0.10 at 50% is 0.15, not 0.15000000001.
	_, net = LineTotals(3, dec("0.10"), dec("50"))
	require.True(t, net.Equal(dec("0.15")), "net %s", net)
}

func TestOrderTotalGlobalPercent(t *testing.T) {
	total := OrderTotal(dec("200.00"), dec("10"), decimal.Zero)
	require.True(t, total.Equal(dec("180.00")), "total %s", total)
}

func TestOrderTotalFixedDiscount(t *testing.T) {
	total := OrderTotal(dec("100.00"), decimal.Zero, dec("15.50"))
	require.True(t, total.Equal(dec("84.50")), "total %s", total)
}

func TestOrderTotalFloorsAtZero(t *testing.T) {
	total := OrderTotal(dec("50.00"), dec("50"), dec("100.00"))
	require.True(t, total.Equal(decimal.Zero), "total %s", total)
	require.False(t, total.IsNegative())
}

func TestOrderTotalPercentThenFixed(t *testing.T) {
	// 200 → 10% off → 180 → minus 30 fixed → 150.
	total := OrderTotal(dec("200.00"), dec("10"), dec("30.00"))
	require.True(t, total.Equal(dec("150.00")), "total %s", total)
}
