package close

import (
	"context"
	"log/slog"
	"time"

	"github.com/lucero-pos/lucero-pos/internal/audit"
)

// Store is the persistence surface the service needs.
type Store interface {
	ClosePeriod(ctx context.Context, from, to, at time.Time) (CloseResult, error)
}

// AuditPort abstracts the audit recorder.
type AuditPort interface {
	Action(ctx context.Context, module string, action audit.Action, ref audit.EntityRef, note string) error
}

// Service validates the period and runs the close.
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

// ClosePeriod closes the ledger for [from, to].
func (s *Service) ClosePeriod(ctx context.Context, from, to time.Time) (CloseResult, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return CloseResult{}, ErrInvalidPeriod
	}
	result, err := s.store.ClosePeriod(ctx, from, to, s.now())
	if err != nil {
		return CloseResult{}, err
	}
	s.logger.Info("period closed",
		slog.Time("from", from),
		slog.Time("to", to),
		slog.String("result", result.Result.StringFixed(2)))
	if s.audit != nil {
		ref := audit.EntityRef{Type: audit.EntityJournal, ID: result.Consolidation.ID}
		_ = s.audit.Action(ctx, "close", audit.ActionCreate, ref, "period closed, result "+result.Result.StringFixed(2))
	}
	return result, nil
}
