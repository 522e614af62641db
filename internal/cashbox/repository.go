package cashbox

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/accounting/journals"
	"github.com/lucero-pos/lucero-pos/internal/platform/db"
)

// Repository persists cash sessions in PostgreSQL. A partial unique index on
// (status) WHERE status='OPEN' enforces the single-open-session rule at the
// storage level; the resulting constraint violation maps to
// ErrSessionAlreadyOpen.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const sessionColumns = `id, status, opened_at, opened_by, closed_at, closed_by, opening_balance, expected_balance, counted_balance, variance`

func scanSession(row pgx.Row) (CashSession, error) {
	var s CashSession
	err := row.Scan(&s.ID, &s.Status, &s.OpenedAt, &s.OpenedBy, &s.ClosedAt, &s.ClosedBy,
		&s.OpeningBalance, &s.ExpectedBalance, &s.CountedBalance, &s.Variance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CashSession{}, ErrSessionNotFound
		}
		return CashSession{}, err
	}
	return s, nil
}

// Open inserts an OPEN session and, when the factory returns a posting,
// records the opening float in the same transaction. The factory receives the
// new session id so the entry can reference its source.
func (r *Repository) Open(ctx context.Context, openedBy string, openingBalance decimal.Decimal, entry func(sessionID int64) *journals.PostingInput) (CashSession, error) {
	var s CashSession
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO cash_sessions (status, opened_by, opening_balance)
VALUES ('OPEN', $1, $2) RETURNING `+sessionColumns, openedBy, openingBalance).
			Scan(&s.ID, &s.Status, &s.OpenedAt, &s.OpenedBy, &s.ClosedAt, &s.ClosedBy,
				&s.OpeningBalance, &s.ExpectedBalance, &s.CountedBalance, &s.Variance)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrSessionAlreadyOpen
			}
			return err
		}
		if in := entry(s.ID); in != nil {
			if _, err := journals.InsertEntryTx(ctx, tx, *in); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return CashSession{}, err
	}
	return s, nil
}

// OpenSession returns the currently open session, or ErrNoOpenSession.
func (r *Repository) OpenSession(ctx context.Context) (CashSession, error) {
	s, err := scanSession(r.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM cash_sessions WHERE status='OPEN'`))
	if errors.Is(err, ErrSessionNotFound) {
		return CashSession{}, ErrNoOpenSession
	}
	return s, err
}

// Get returns one session.
func (r *Repository) Get(ctx context.Context, id int64) (CashSession, error) {
	return scanSession(r.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM cash_sessions WHERE id=$1`, id))
}

// List returns sessions newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]CashSession, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `SELECT `+sessionColumns+` FROM cash_sessions ORDER BY opened_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []CashSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Close stamps the reconciliation figures onto an OPEN session. The status
// guard in the WHERE clause makes a second close report ErrSessionClosed
// instead of silently overwriting the first reconciliation.
func (r *Repository) Close(ctx context.Context, id int64, closedBy string, expected, counted, variance decimal.Decimal) (CashSession, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE cash_sessions
SET status='CLOSED', closed_at=NOW(), closed_by=$2, expected_balance=$3, counted_balance=$4, variance=$5
WHERE id=$1 AND status='OPEN'`, id, closedBy, expected, counted, variance)
	if err != nil {
		return CashSession{}, err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return CashSession{}, err
		}
		return CashSession{}, ErrSessionClosed
	}
	return r.Get(ctx, id)
}

// CashMovementSince sums the cash account's debits minus credits for entries
// dated at or after the given instant. The opening float entry falls inside
// the window, so the result is the full expected drawer balance.
func (r *Repository) CashMovementSince(ctx context.Context, cashAccountCode string, since time.Time) (decimal.Decimal, error) {
	var debit, credit decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(l.debit),0), COALESCE(SUM(l.credit),0)
FROM entry_lines l
JOIN accounts a ON a.id = l.account_id
JOIN journal_entries e ON e.id = l.entry_id
WHERE a.code = $1 AND e.date >= $2`, cashAccountCode, since).Scan(&debit, &credit)
	if err != nil {
		return decimal.Zero, err
	}
	return debit.Sub(credit), nil
}

// Report aggregates a session's sales by payment method and by product.
func (r *Repository) Report(ctx context.Context, sessionID int64) (SessionReport, error) {
	session, err := r.Get(ctx, sessionID)
	if err != nil {
		return SessionReport{}, err
	}
	report := SessionReport{Session: session, SalesTotal: decimal.Zero}

	err = r.pool.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(total),0) FROM sales WHERE session_id=$1`, sessionID).
		Scan(&report.SalesCount, &report.SalesTotal)
	if err != nil {
		return SessionReport{}, err
	}

	rows, err := r.pool.Query(ctx, `SELECT p.method, COALESCE(SUM(p.amount),0)
FROM sale_payments p JOIN sales s ON s.id = p.sale_id
WHERE s.session_id=$1 GROUP BY p.method ORDER BY p.method`, sessionID)
	if err != nil {
		return SessionReport{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var m MethodTotal
		if err := rows.Scan(&m.Method, &m.Amount); err != nil {
			return SessionReport{}, err
		}
		report.ByMethod = append(report.ByMethod, m)
	}
	if err := rows.Err(); err != nil {
		return SessionReport{}, err
	}

	productRows, err := r.pool.Query(ctx, `SELECT l.product_id, l.product_name, SUM(l.quantity), COALESCE(SUM(l.total),0)
FROM sale_lines l JOIN sales s ON s.id = l.sale_id
WHERE s.session_id=$1 GROUP BY l.product_id, l.product_name ORDER BY SUM(l.quantity) DESC`, sessionID)
	if err != nil {
		return SessionReport{}, err
	}
	defer productRows.Close()
	for productRows.Next() {
		var p ProductTotal
		if err := productRows.Scan(&p.ProductID, &p.Name, &p.Quantity, &p.Amount); err != nil {
			return SessionReport{}, err
		}
		report.ByProduct = append(report.ByProduct, p)
	}
	return report, productRows.Err()
}
