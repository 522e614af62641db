// Package jobs runs background work over Asynq: the ledger integrity sweep
// and the price list cache warmup.
package jobs

import (
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity re-checks that every persisted journal entry
	// balances. Correct write paths make this a no-op; a hit means a bug
	// or manual database tampering.
	TaskLedgerIntegrity = "ledger:integrity"
	// TaskPriceCacheWarm refreshes the cached price list so the first POS
	// request of the day does not pay the cache miss.
	TaskPriceCacheWarm = "catalog:warm-prices"
)

// NewLedgerIntegrityTask constructs the integrity sweep task.
func NewLedgerIntegrityTask() *asynq.Task {
	return asynq.NewTask(TaskLedgerIntegrity, nil)
}

// NewPriceCacheWarmTask constructs the price warmup task.
func NewPriceCacheWarmTask() *asynq.Task {
	return asynq.NewTask(TaskPriceCacheWarm, nil)
}
