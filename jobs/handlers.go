package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// UnbalancedLister reports ids of journal entries whose lines do not sum to
// equal debit and credit.
type UnbalancedLister interface {
	UnbalancedEntryIDs(ctx context.Context) ([]int64, error)
}

// PriceWarmer rebuilds the cached price list.
type PriceWarmer interface {
	PriceList(ctx context.Context) (map[int64]string, error)
}

// NewLedgerIntegrityHandler builds the integrity sweep handler. Findings are
// logged at error level and the task completes; retrying would not fix a
// corrupted entry, a human has to look at it.
func NewLedgerIntegrityHandler(logger *slog.Logger, lister UnbalancedLister) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		ids, err := lister.UnbalancedEntryIDs(ctx)
		if err != nil {
			return err
		}
		if len(ids) > 0 {
			logger.Error("unbalanced journal entries found",
				slog.Int("count", len(ids)),
				slog.Any("entry_ids", ids))
			return nil
		}
		logger.Info("ledger integrity sweep clean")
		return nil
	}
}

// NewPriceCacheWarmHandler builds the price warmup handler.
func NewPriceCacheWarmHandler(logger *slog.Logger, warmer PriceWarmer) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		prices, err := warmer.PriceList(ctx)
		if err != nil {
			return err
		}
		logger.Info("price cache warmed", slog.Int("products", len(prices)))
		return nil
	}
}
