package orders

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lucero-pos/lucero-pos/internal/accounting/accounts"
	"github.com/lucero-pos/lucero-pos/internal/accounting/journals"
	"github.com/lucero-pos/lucero-pos/internal/cashbox"
	"github.com/lucero-pos/lucero-pos/internal/masterdata/products"
)

type fakeGate struct {
	sessionID int64
	err       error
}

func (g fakeGate) OpenSessionID(context.Context) (int64, error) {
	return g.sessionID, g.err
}

type fakeCatalog map[int64]products.Product

func (c fakeCatalog) Get(_ context.Context, id int64) (products.Product, error) {
	p, ok := c[id]
	if !ok {
		return products.Product{}, products.ErrProductNotFound
	}
	return p, nil
}

type fakeStore struct {
	nextID   int64
	sales    []Sale
	postings []journals.PostingInput
	stock    map[int64]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, stock: map[int64]int{}}
}

func (f *fakeStore) PostSale(_ context.Context, sale Sale, entries func(int64) []journals.PostingInput) (Sale, error) {
	for _, line := range sale.Lines {
		if have, tracked := f.stock[line.ProductID]; tracked {
			if have < line.Quantity {
				return Sale{}, products.ErrInsufficientStock
			}
			f.stock[line.ProductID] = have - line.Quantity
		}
	}
	sale.ID = f.nextID
	f.nextID++
	f.postings = append(f.postings, entries(sale.ID)...)
	f.sales = append(f.sales, sale)
	return sale, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (Sale, error) {
	for _, s := range f.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return Sale{}, ErrSaleNotFound
}

func (f *fakeStore) List(context.Context, ListFilter) ([]Sale, error) {
	return f.sales, nil
}

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func moneyPtr(s string) *decimal.Decimal {
	d := money(s)
	return &d
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		1: {ID: 1, Name: "Notebook", SalePrice: money("50.00"), CostPrice: moneyPtr("30.00"), StockQty: 10},
		2: {ID: 2, Name: "Ribbon", SalePrice: money("20.00"), StockQty: 5},
	}
}

func newService(store *fakeStore, gate SessionGate) *Service {
	return NewService(testLogger(), store, testCatalog(), gate, nil)
}

func cashSale(productID int64, qty int, tendered string) SaleInput {
	return SaleInput{
		Lines:    []LineInput{{ProductID: productID, Quantity: qty}},
		Payments: []PaymentInput{{Method: MethodCash, Amount: money(tendered)}},
	}
}

func TestPostRequiresOpenSession(t *testing.T) {
	svc := newService(newFakeStore(), fakeGate{err: cashbox.ErrNoOpenSession})
	_, err := svc.Post(context.Background(), cashSale(1, 1, "50.00"))
	require.ErrorIs(t, err, cashbox.ErrNoOpenSession)
}

func TestPostCapturesHistoricalPrice(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, fakeGate{sessionID: 7})

	sale, err := svc.Post(context.Background(), cashSale(1, 2, "100.00"))
	require.NoError(t, err)
	require.Equal(t, int64(7), sale.SessionID)
	require.Len(t, sale.Lines, 1)
	require.True(t, sale.Lines[0].UnitPrice.Equal(money("50.00")))
	require.True(t, sale.Total.Equal(money("100.00")))
	require.True(t, sale.Change.IsZero())
}

func TestPostAppliesGlobalDiscount(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, fakeGate{sessionID: 1})

	in := cashSale(1, 4, "180.00") // 4 x 50.00 = 200.00
	in.DiscountPct = money("10")
	sale, err := svc.Post(context.Background(), in)
	require.NoError(t, err)
	require.True(t, sale.Subtotal.Equal(money("200.00")))
	require.True(t, sale.Total.Equal(money("180.00")), "total %s", sale.Total)
}

func TestPostLineDiscountAndFixed(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, fakeGate{sessionID: 1})

	in := SaleInput{
		Lines: []LineInput{
			{ProductID: 1, Quantity: 2, DiscountPct: money("50")}, // 100 -> 50
			{ProductID: 2, Quantity: 1},                           // 20
		},
		DiscountFixed: money("5.00"),
		Payments:      []PaymentInput{{Method: MethodCard, Amount: money("65.00")}},
	}
	sale, err := svc.Post(context.Background(), in)
	require.NoError(t, err)
	require.True(t, sale.Total.Equal(money("65.00")), "total %s", sale.Total)
}

func TestPostJournalEntries(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, fakeGate{sessionID: 1})

	sale, err := svc.Post(context.Background(), cashSale(1, 2, "100.00"))
	require.NoError(t, err)

	require.Len(t, store.postings, 2)
	revenue := store.postings[0]
	require.Equal(t, journals.EntryKindNormal, revenue.Kind)
	require.Equal(t, sale.ID, revenue.SourceID)
	require.NoError(t, revenue.Validate())
	require.Equal(t, accounts.CodeCash, revenue.Lines[0].AccountCode)
	require.True(t, revenue.Lines[0].Debit.Equal(money("100.00")))
	require.Equal(t, accounts.CodeSales, revenue.Lines[1].AccountCode)
	require.True(t, revenue.Lines[1].Credit.Equal(money("100.00")))

	cost := store.postings[1]
	require.NoError(t, cost.Validate())
	require.Equal(t, accounts.CodeCOGS, cost.Lines[0].AccountCode)
	require.True(t, cost.Lines[0].Debit.Equal(money("60.00")))
	require.Equal(t, accounts.CodeMerchandise, cost.Lines[1].AccountCode)
	require.True(t, cost.Lines[1].Credit.Equal(money("60.00")))
}

func TestPostSkipsCostEntryWithoutCostBasis(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, fakeGate{sessionID: 1})

	// Product 2 has no recorded cost.
	_, err := svc.Post(context.Background(), cashSale(2, 1, "20.00"))
	require.NoError(t, err)
	require.Len(t, store.postings, 1)
	require.Equal(t, accounts.CodeSales, store.postings[0].Lines[1].AccountCode)
}

func TestPostComputesChange(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, fakeGate{sessionID: 1})

	sale, err := svc.Post(context.Background(), cashSale(2, 1, "50.00"))
	require.NoError(t, err)
	require.True(t, sale.Change.Equal(money("30.00")))
	// The ledger records the sale total, not the tendered amount.
	require.True(t, store.postings[0].Lines[0].Debit.Equal(money("20.00")))
}

func TestPostShortPaymentRecordsNegativeChange(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, fakeGate{sessionID: 1})

	sale, err := svc.Post(context.Background(), cashSale(1, 2, "90.00"))
	require.NoError(t, err)
	require.True(t, sale.Paid.Equal(money("90.00")))
	require.True(t, sale.Change.Equal(money("-10.00")), "change %s", sale.Change)
	// The ledger still records the full sale total.
	require.True(t, store.postings[0].Lines[0].Debit.Equal(money("100.00")))
}

func TestPostCardOverpaymentGivesChange(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, fakeGate{sessionID: 1})

	in := SaleInput{
		Lines:    []LineInput{{ProductID: 2, Quantity: 1}},
		Payments: []PaymentInput{{Method: MethodCard, Amount: money("25.00")}},
	}
	sale, err := svc.Post(context.Background(), in)
	require.NoError(t, err)
	require.True(t, sale.Change.Equal(money("5.00")))
}

func TestPostWithoutPaymentsRecordsFullShortfall(t *testing.T) {
	store := newFakeStore()
	svc := newService(store, fakeGate{sessionID: 1})

	in := SaleInput{Lines: []LineInput{{ProductID: 2, Quantity: 1}}}
	sale, err := svc.Post(context.Background(), in)
	require.NoError(t, err)
	require.True(t, sale.Paid.IsZero())
	require.True(t, sale.Change.Equal(money("-20.00")))
	require.Empty(t, sale.Payments)
}

func TestPostInsufficientStockRollsBack(t *testing.T) {
	store := newFakeStore()
	store.stock[2] = 3
	svc := newService(store, fakeGate{sessionID: 1})

	_, err := svc.Post(context.Background(), cashSale(2, 5, "100.00"))
	require.ErrorIs(t, err, products.ErrInsufficientStock)
	require.Empty(t, store.sales)
	require.Equal(t, 3, store.stock[2])
}

func TestPostUnknownProduct(t *testing.T) {
	svc := newService(newFakeStore(), fakeGate{sessionID: 1})
	_, err := svc.Post(context.Background(), cashSale(99, 1, "10.00"))
	require.ErrorIs(t, err, products.ErrProductNotFound)
}

func TestSaleInputValidate(t *testing.T) {
	base := cashSale(1, 1, "50.00")
	require.NoError(t, base.Validate())

	noLines := base
	noLines.Lines = nil
	require.Error(t, noLines.Validate())

	badQty := cashSale(1, 0, "50.00")
	require.Error(t, badQty.Validate())

	noPayment := base
	noPayment.Payments = nil
	require.NoError(t, noPayment.Validate())

	badMethod := base
	badMethod.Payments = []PaymentInput{{Method: "CHEQUE", Amount: money("50.00")}}
	require.Error(t, badMethod.Validate())

	negativePayment := base
	negativePayment.Payments = []PaymentInput{{Method: MethodCash, Amount: money("-1.00")}}
	require.Error(t, negativePayment.Validate())

	bigDiscount := base
	bigDiscount.DiscountPct = money("150")
	require.Error(t, bigDiscount.Validate())
}
