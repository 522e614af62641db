package close

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lucero-pos/lucero-pos/internal/accounting/accounts"
	"github.com/lucero-pos/lucero-pos/internal/accounting/journals"
	"github.com/lucero-pos/lucero-pos/internal/platform/db"
)

// Repository runs period closes against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ClosePeriod posts the consolidation and closing entries in one
// transaction. Income and expense balances are cumulative over the whole
// ledger, consolidation entries included, so running the close again after
// the accounts were zeroed finds nothing and aborts with ErrNothingToClose
// instead of posting a duplicate pair. The period result and accumulated
// results accounts are resolved before anything is written, so a miswired
// chart of accounts aborts the close cleanly.
func (r *Repository) ClosePeriod(ctx context.Context, from, to, at time.Time) (CloseResult, error) {
	result := CloseResult{From: from, To: to}
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := accounts.GetByCodeTx(ctx, tx, accounts.CodePeriodResult); err != nil {
			return err
		}
		if _, err := accounts.GetByCodeTx(ctx, tx, accounts.CodeAccumulatedResults); err != nil {
			return err
		}
		balances, err := incomeExpenseBalances(ctx, tx)
		if err != nil {
			return err
		}
		consolidation, closing, net, err := BuildCloseEntries(balances, at)
		if err != nil {
			return err
		}
		result.Result = net
		result.Consolidation, err = journals.InsertEntryTx(ctx, tx, consolidation)
		if err != nil {
			return err
		}
		if closing != nil {
			entry, err := journals.InsertEntryTx(ctx, tx, *closing)
			if err != nil {
				return err
			}
			result.Closing = &entry
		}
		return nil
	})
	if err != nil {
		return CloseResult{}, err
	}
	return result, nil
}

func incomeExpenseBalances(ctx context.Context, tx pgx.Tx) ([]AccountBalance, error) {
	rows, err := tx.Query(ctx, `SELECT a.id, a.code, a.name, a.type, COALESCE(SUM(l.debit),0) - COALESCE(SUM(l.credit),0)
FROM accounts a
JOIN entry_lines l ON l.account_id = a.id
WHERE a.type IN ('INCOME','EXPENSE')
GROUP BY a.id, a.code, a.name, a.type
ORDER BY a.code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var balances []AccountBalance
	for rows.Next() {
		var b AccountBalance
		if err := rows.Scan(&b.AccountID, &b.Code, &b.Name, &b.Type, &b.Net); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}
