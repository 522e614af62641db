package procurement

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lucero-pos/lucero-pos/internal/accounting/accounts"
	"github.com/lucero-pos/lucero-pos/internal/accounting/journals"
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
	nextID    int64
	purchases []Purchase
	postings  []journals.PostingInput
}

func (f *fakeStore) PostPurchase(_ context.Context, p Purchase, entries func(int64) []journals.PostingInput) (Purchase, error) {
	f.nextID++
	p.ID = f.nextID
	f.postings = append(f.postings, entries(p.ID)...)
	f.purchases = append(f.purchases, p)
	return p, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (Purchase, error) {
	for _, p := range f.purchases {
		if p.ID == id {
			return p, nil
		}
	}
	return Purchase{}, ErrPurchaseNotFound
}

func (f *fakeStore) List(context.Context, ListFilter) ([]Purchase, error) {
	return f.purchases, nil
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

func TestPostCreditPurchase(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)

	purchase, err := svc.Post(context.Background(), PurchaseInput{
		SupplierID: 3,
		Payment:    PaymentCredit,
		Lines:      []LineInput{{ProductID: 1, Quantity: 10, UnitCost: money("28.00")}},
	})
	require.NoError(t, err)
	require.True(t, purchase.Total.Equal(money("280.00")))

	require.Len(t, store.postings, 1)
	entry := store.postings[0]
	require.NoError(t, entry.Validate())
	require.Equal(t, purchase.ID, entry.SourceID)
	require.Equal(t, accounts.CodeMerchandise, entry.Lines[0].AccountCode)
	require.True(t, entry.Lines[0].Debit.Equal(money("280.00")))
	require.Equal(t, accounts.CodeSuppliers, entry.Lines[1].AccountCode)
	require.True(t, entry.Lines[1].Credit.Equal(money("280.00")))
}

func TestPostCashPurchaseCreditsCash(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store)

	_, err := svc.Post(context.Background(), PurchaseInput{
		SupplierID: 3,
		Payment:    PaymentCash,
		Lines:      []LineInput{{ProductID: 1, Quantity: 2, UnitCost: money("30.00")}},
	})
	require.NoError(t, err)
	require.Len(t, store.postings, 1)
	require.Equal(t, accounts.CodeCash, store.postings[0].Lines[1].AccountCode)
}

func TestPostRejectsInvalidInput(t *testing.T) {
	svc := newService(&fakeStore{})

	_, err := svc.Post(context.Background(), PurchaseInput{Payment: PaymentCash})
	require.Error(t, err)

	_, err = svc.Post(context.Background(), PurchaseInput{
		SupplierID: 3,
		Payment:    "CHEQUE",
		Lines:      []LineInput{{ProductID: 1, Quantity: 1, UnitCost: money("1.00")}},
	})
	require.Error(t, err)

	_, err = svc.Post(context.Background(), PurchaseInput{
		SupplierID: 3,
		Payment:    PaymentCash,
		Lines:      []LineInput{{ProductID: 1, Quantity: 0, UnitCost: money("1.00")}},
	})
	require.Error(t, err)
}

func TestPostUnknownProduct(t *testing.T) {
	svc := newService(&fakeStore{})
	_, err := svc.Post(context.Background(), PurchaseInput{
		SupplierID: 3,
		Payment:    PaymentCash,
		Lines:      []LineInput{{ProductID: 42, Quantity: 1, UnitCost: money("1.00")}},
	})
	require.ErrorIs(t, err, products.ErrProductNotFound)
}
