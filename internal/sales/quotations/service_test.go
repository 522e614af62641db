package quotations

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lucero-pos/lucero-pos/internal/masterdata/products"
)

type fakeCatalog map[int64]products.Product

func (c fakeCatalog) Get(_ context.Context, id int64) (products.Product, error) {
	p, ok := c[id]
	if !ok {
		return products.Product{}, products.ErrProductNotFound
	}
	return p, nil
}

type fakeStore struct {
	nextID int64
	quotes []Quote
}

func (f *fakeStore) Create(_ context.Context, q Quote) (Quote, error) {
	f.nextID++
	q.ID = f.nextID
	f.quotes = append(f.quotes, q)
	return q, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (Quote, error) {
	for _, q := range f.quotes {
		if q.ID == id {
			return q, nil
		}
	}
	return Quote{}, ErrQuoteNotFound
}

func (f *fakeStore) List(context.Context, ListFilter) ([]Quote, error) {
	return f.quotes, nil
}

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newService(store *fakeStore) *Service {
	catalog := fakeCatalog{
		1: {ID: 1, Name: "Notebook", SalePrice: money("50.00"), StockQty: 10},
	}
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), store, catalog, nil)
}

func TestCreatePricesFromCatalog(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)

	quote, err := svc.Create(context.Background(), QuoteInput{
		Lines: []LineInput{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Len(t, quote.Lines, 1)
	require.True(t, quote.Lines[0].UnitPrice.Equal(money("50.00")))
	require.True(t, quote.Total.Equal(money("150.00")))
}

func TestCreateAppliesHeaderDiscount(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)

	quote, err := svc.Create(context.Background(), QuoteInput{
		DiscountPct: money("20"),
		Lines:       []LineInput{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	require.True(t, quote.Subtotal.Equal(money("100.00")))
	require.True(t, quote.Total.Equal(money("80.00")), "total %s", quote.Total)
}

func TestCreateRejectsEmptyQuote(t *testing.T) {
	svc := newService(&fakeStore{})
	_, err := svc.Create(context.Background(), QuoteInput{})
	require.Error(t, err)
}

func TestCreateUnknownProduct(t *testing.T) {
	svc := newService(&fakeStore{})
	_, err := svc.Create(context.Background(), QuoteInput{Lines: []LineInput{{ProductID: 9, Quantity: 1}}})
	require.ErrorIs(t, err, products.ErrProductNotFound)
}
