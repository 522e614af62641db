package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lucero-pos/lucero-pos/internal/accounting/shared"
)

// Repository encapsulates DB operations for the chart of accounts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns the full chart ordered by code.
func (r *Repository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, name, type FROM accounts ORDER BY code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Type); err != nil {
			return nil, err
		}
		accts = append(accts, a)
	}
	return accts, rows.Err()
}

// GetByCode looks up one account by its unique code.
func (r *Repository) GetByCode(ctx context.Context, code string) (Account, error) {
	return getByCode(ctx, r.pool, code)
}

// GetByCodeTx resolves an account inside an existing transaction. Posting
// pipelines use this so a missing code aborts the whole transaction.
func GetByCodeTx(ctx context.Context, tx pgx.Tx, code string) (Account, error) {
	return getByCode(ctx, tx, code)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getByCode(ctx context.Context, q querier, code string) (Account, error) {
	var a Account
	err := q.QueryRow(ctx, `SELECT id, code, name, type FROM accounts WHERE code=$1`, code).
		Scan(&a.ID, &a.Code, &a.Name, &a.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, fmt.Errorf("%w: %s", shared.ErrMissingAccount, code)
		}
		return Account{}, err
	}
	return a, nil
}
