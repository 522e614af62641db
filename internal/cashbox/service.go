package cashbox

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/accounting/accounts"
	"github.com/lucero-pos/lucero-pos/internal/accounting/journals"
	"github.com/lucero-pos/lucero-pos/internal/audit"
	"github.com/lucero-pos/lucero-pos/internal/shared"
)

// Store is the persistence surface the service needs.
type Store interface {
	Open(ctx context.Context, openedBy string, openingBalance decimal.Decimal, entry func(sessionID int64) *journals.PostingInput) (CashSession, error)
	OpenSession(ctx context.Context) (CashSession, error)
	Get(ctx context.Context, id int64) (CashSession, error)
	List(ctx context.Context, limit int) ([]CashSession, error)
	Close(ctx context.Context, id int64, closedBy string, expected, counted, variance decimal.Decimal) (CashSession, error)
	CashMovementSince(ctx context.Context, cashAccountCode string, since time.Time) (decimal.Decimal, error)
	Report(ctx context.Context, sessionID int64) (SessionReport, error)
}

// AuditPort abstracts the audit recorder.
type AuditPort interface {
	Create(ctx context.Context, module string, entity audit.Auditable, note string) error
	Update(ctx context.Context, module string, before audit.Snapshot, entity audit.Auditable, note string) error
}

const auditModule = "cashbox"

// Service runs the session state machine.
type Service struct {
	store  Store
	audit  AuditPort
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds Service.
func NewService(logger *slog.Logger, store Store, auditPort AuditPort) *Service {
	return &Service{store: store, audit: auditPort, logger: logger, now: time.Now}
}

// Open starts a session with the counted till float. A positive float is
// recorded in the ledger as an OPENING entry, cash against capital, inside
// the same transaction that creates the session row.
func (s *Service) Open(ctx context.Context, openingBalance decimal.Decimal) (CashSession, error) {
	if openingBalance.IsNegative() {
		return CashSession{}, errors.New("cashbox: opening balance cannot be negative")
	}
	meta := shared.RequestMetaFromContext(ctx)
	session, err := s.store.Open(ctx, meta.Actor, openingBalance, func(sessionID int64) *journals.PostingInput {
		if !openingBalance.IsPositive() {
			return nil
		}
		return &journals.PostingInput{
			Date:         s.now(),
			Description:  "Cash session opening float",
			Kind:         journals.EntryKindOpening,
			SourceModule: auditModule,
			SourceID:     sessionID,
			Lines: []journals.LineInput{
				{AccountCode: accounts.CodeCash, Debit: openingBalance},
				{AccountCode: accounts.CodeCapital, Credit: openingBalance},
			},
		}
	})
	if err != nil {
		return CashSession{}, err
	}
	s.logger.Info("cash session opened",
		slog.Int64("session_id", session.ID),
		slog.String("opening_balance", openingBalance.StringFixed(2)))
	if s.audit != nil {
		_ = s.audit.Create(ctx, auditModule, session, "session opened")
	}
	return session, nil
}

// Current returns the open session, or ErrNoOpenSession.
func (s *Service) Current(ctx context.Context) (CashSession, error) {
	return s.store.OpenSession(ctx)
}

// OpenSessionID reports the id of the open session. Sales call this as their
// posting gate.
func (s *Service) OpenSessionID(ctx context.Context) (int64, error) {
	session, err := s.store.OpenSession(ctx)
	if err != nil {
		return 0, err
	}
	return session.ID, nil
}

// Close reconciles and closes the open session. The expected drawer balance
// comes from the ledger: cash account debits minus credits dated within the
// session, which includes the opening float entry. Variance is counted minus
// expected and is stored even when zero.
func (s *Service) Close(ctx context.Context, countedBalance decimal.Decimal) (SessionReport, error) {
	if countedBalance.IsNegative() {
		return SessionReport{}, errors.New("cashbox: counted balance cannot be negative")
	}
	session, err := s.store.OpenSession(ctx)
	if err != nil {
		return SessionReport{}, err
	}
	expected, err := s.store.CashMovementSince(ctx, accounts.CodeCash, session.OpenedAt)
	if err != nil {
		return SessionReport{}, err
	}
	variance := countedBalance.Sub(expected).Round(2)
	meta := shared.RequestMetaFromContext(ctx)
	before := session.Snapshot()
	closed, err := s.store.Close(ctx, session.ID, meta.Actor, expected.Round(2), countedBalance.Round(2), variance)
	if err != nil {
		return SessionReport{}, err
	}
	s.logger.Info("cash session closed",
		slog.Int64("session_id", closed.ID),
		slog.String("expected", expected.StringFixed(2)),
		slog.String("counted", countedBalance.StringFixed(2)),
		slog.String("variance", variance.StringFixed(2)))
	if s.audit != nil {
		_ = s.audit.Update(ctx, auditModule, before, closed, "session closed")
	}
	return s.store.Report(ctx, closed.ID)
}

// Get returns one session.
func (s *Service) Get(ctx context.Context, id int64) (CashSession, error) {
	return s.store.Get(ctx, id)
}

// List returns recent sessions.
func (s *Service) List(ctx context.Context, limit int) ([]CashSession, error) {
	return s.store.List(ctx, limit)
}

// Report returns the per-method and per-product summary for a session.
func (s *Service) Report(ctx context.Context, sessionID int64) (SessionReport, error) {
	return s.store.Report(ctx, sessionID)
}
