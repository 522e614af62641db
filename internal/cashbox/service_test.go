package cashbox

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lucero-pos/lucero-pos/internal/accounting/accounts"
	"github.com/lucero-pos/lucero-pos/internal/accounting/journals"
	"github.com/lucero-pos/lucero-pos/internal/shared"
)

type fakeStore struct {
	open     *CashSession
	nextID   int64
	movement decimal.Decimal
	postings []journals.PostingInput
	reports  map[int64]SessionReport
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, reports: map[int64]SessionReport{}}
}

func (f *fakeStore) Open(_ context.Context, openedBy string, openingBalance decimal.Decimal, entry func(int64) *journals.PostingInput) (CashSession, error) {
	if f.open != nil {
		return CashSession{}, ErrSessionAlreadyOpen
	}
	s := CashSession{
		ID:             f.nextID,
		Status:         StatusOpen,
		OpenedAt:       time.Now(),
		OpenedBy:       openedBy,
		OpeningBalance: openingBalance,
	}
	f.nextID++
	if in := entry(s.ID); in != nil {
		f.postings = append(f.postings, *in)
	}
	f.open = &s
	return s, nil
}

func (f *fakeStore) OpenSession(context.Context) (CashSession, error) {
	if f.open == nil {
		return CashSession{}, ErrNoOpenSession
	}
	return *f.open, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (CashSession, error) {
	if f.open != nil && f.open.ID == id {
		return *f.open, nil
	}
	return CashSession{}, ErrSessionNotFound
}

func (f *fakeStore) List(context.Context, int) ([]CashSession, error) {
	if f.open == nil {
		return nil, nil
	}
	return []CashSession{*f.open}, nil
}

func (f *fakeStore) Close(_ context.Context, id int64, closedBy string, expected, counted, variance decimal.Decimal) (CashSession, error) {
	if f.open == nil || f.open.ID != id {
		return CashSession{}, ErrSessionClosed
	}
	s := *f.open
	now := time.Now()
	s.Status = StatusClosed
	s.ClosedAt = &now
	s.ClosedBy = &closedBy
	s.ExpectedBalance = &expected
	s.CountedBalance = &counted
	s.Variance = &variance
	f.reports[id] = SessionReport{Session: s}
	f.open = nil
	return s, nil
}

func (f *fakeStore) CashMovementSince(context.Context, string, time.Time) (decimal.Decimal, error) {
	return f.movement, nil
}

func (f *fakeStore) Report(_ context.Context, id int64) (SessionReport, error) {
	report, ok := f.reports[id]
	if !ok {
		return SessionReport{}, ErrSessionNotFound
	}
	return report, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testContext() context.Context {
	return shared.ContextWithRequestMeta(context.Background(), shared.RequestMeta{Actor: "clerk", SourceIP: "127.0.0.1"})
}

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestOpenPostsOpeningFloat(t *testing.T) {
	store := newFakeStore()
	svc := NewService(testLogger(), store, nil)

	session, err := svc.Open(testContext(), money("100.00"))
	require.NoError(t, err)
	require.Equal(t, StatusOpen, session.Status)
	require.Equal(t, "clerk", session.OpenedBy)

	require.Len(t, store.postings, 1)
	in := store.postings[0]
	require.Equal(t, journals.EntryKindOpening, in.Kind)
	require.Equal(t, session.ID, in.SourceID)
	require.Len(t, in.Lines, 2)
	require.Equal(t, accounts.CodeCash, in.Lines[0].AccountCode)
	require.True(t, in.Lines[0].Debit.Equal(money("100.00")))
	require.Equal(t, accounts.CodeCapital, in.Lines[1].AccountCode)
	require.True(t, in.Lines[1].Credit.Equal(money("100.00")))
	require.NoError(t, in.Validate())
}

func TestOpenZeroFloatSkipsEntry(t *testing.T) {
	store := newFakeStore()
	svc := NewService(testLogger(), store, nil)

	_, err := svc.Open(testContext(), decimal.Zero)
	require.NoError(t, err)
	require.Empty(t, store.postings)
}

func TestOpenRejectsNegativeFloat(t *testing.T) {
	svc := NewService(testLogger(), newFakeStore(), nil)
	_, err := svc.Open(testContext(), money("-5"))
	require.Error(t, err)
}

func TestOpenWhileAlreadyOpen(t *testing.T) {
	store := newFakeStore()
	svc := NewService(testLogger(), store, nil)

	_, err := svc.Open(testContext(), money("50.00"))
	require.NoError(t, err)
	_, err = svc.Open(testContext(), money("50.00"))
	require.ErrorIs(t, err, ErrSessionAlreadyOpen)
}

func TestCloseZeroVariance(t *testing.T) {
	store := newFakeStore()
	svc := NewService(testLogger(), store, nil)

	_, err := svc.Open(testContext(), money("100.00"))
	require.NoError(t, err)

	// Ledger shows the float plus 50 in cash sales.
	store.movement = money("150.00")

	report, err := svc.Close(testContext(), money("150.00"))
	require.NoError(t, err)
	session := report.Session
	require.Equal(t, StatusClosed, session.Status)
	require.True(t, session.ExpectedBalance.Equal(money("150.00")))
	require.True(t, session.CountedBalance.Equal(money("150.00")))
	require.True(t, session.Variance.IsZero())
}

func TestCloseReportsShortDrawer(t *testing.T) {
	store := newFakeStore()
	svc := NewService(testLogger(), store, nil)

	_, err := svc.Open(testContext(), money("100.00"))
	require.NoError(t, err)
	store.movement = money("150.00")

	report, err := svc.Close(testContext(), money("140.00"))
	require.NoError(t, err)
	require.True(t, report.Session.Variance.Equal(money("-10.00")))
}

func TestCloseWithoutOpenSession(t *testing.T) {
	svc := NewService(testLogger(), newFakeStore(), nil)
	_, err := svc.Close(testContext(), money("10.00"))
	require.ErrorIs(t, err, ErrNoOpenSession)
}

func TestOpenSessionIDGate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(testLogger(), store, nil)

	_, err := svc.OpenSessionID(testContext())
	require.ErrorIs(t, err, ErrNoOpenSession)

	session, err := svc.Open(testContext(), decimal.Zero)
	require.NoError(t, err)

	id, err := svc.OpenSessionID(testContext())
	require.NoError(t, err)
	require.Equal(t, session.ID, id)
}
