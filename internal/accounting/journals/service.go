package journals

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// Service coordinates journal posting and the day-book listing.
type Service struct {
	repo   *Repository
	logger *slog.Logger
}

// NewService builds Service.
func NewService(logger *slog.Logger, repo *Repository) *Service {
	return &Service{repo: repo, logger: logger}
}

// Post validates and persists one balanced journal entry as a single unit.
// Manual entries and tests go through here; document pipelines call
// InsertEntryTx inside their own transactions instead.
func (s *Service) Post(ctx context.Context, in PostingInput) (JournalEntry, error) {
	if err := in.Validate(); err != nil {
		return JournalEntry{}, err
	}
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		var e error
		entry, e = InsertEntryTx(ctx, tx, in)
		return e
	})
	if err != nil {
		return JournalEntry{}, err
	}
	s.logger.Info("journal entry posted",
		slog.Int64("entry_id", entry.ID),
		slog.String("kind", string(entry.Kind)),
		slog.String("description", entry.Description))
	return entry, nil
}

// List returns the day book.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]JournalEntry, error) {
	return s.repo.List(ctx, filter)
}

// Get returns one entry with lines.
func (s *Service) Get(ctx context.Context, id int64) (JournalEntry, error) {
	return s.repo.Get(ctx, id)
}
