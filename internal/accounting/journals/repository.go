package journals

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/accounting/accounts"
	"github.com/lucero-pos/lucero-pos/internal/accounting/shared"
	"github.com/lucero-pos/lucero-pos/internal/platform/db"
)

// Repository encapsulates DB operations for journals.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return db.WithTx(ctx, r.pool, fn)
}

// InsertEntryTx creates one journal entry plus all of its lines inside the
// caller's transaction. Pipelines that mix stock, document, and ledger writes
// call this so the entry commits or rolls back with everything else. The
// input is validated here so an unbalanced entry never reaches the database
// no matter which pipeline produced it. Account codes are resolved here; an
// unknown code fails the whole transaction with shared.ErrMissingAccount.
func InsertEntryTx(ctx context.Context, tx pgx.Tx, in PostingInput) (JournalEntry, error) {
	if err := in.Validate(); err != nil {
		return JournalEntry{}, err
	}
	entry := JournalEntry{
		Date:         in.Date,
		Description:  in.Description,
		Kind:         in.Kind,
		SourceModule: in.SourceModule,
		SourceID:     in.SourceID,
	}
	err := tx.QueryRow(ctx, `INSERT INTO journal_entries (date, description, kind, source_module, source_id)
VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at`,
		in.Date, in.Description, string(in.Kind), in.SourceModule, nullInt64(in.SourceID)).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return JournalEntry{}, err
	}
	for _, line := range in.Lines {
		account, err := accounts.GetByCodeTx(ctx, tx, line.AccountCode)
		if err != nil {
			return JournalEntry{}, err
		}
		el := EntryLine{
			EntryID:     entry.ID,
			AccountID:   account.ID,
			AccountCode: account.Code,
			AccountName: account.Name,
			Debit:       line.Debit.Round(2),
			Credit:      line.Credit.Round(2),
		}
		err = tx.QueryRow(ctx, `INSERT INTO entry_lines (entry_id, account_id, debit, credit)
VALUES ($1,$2,$3,$4) RETURNING id`, el.EntryID, el.AccountID, el.Debit, el.Credit).Scan(&el.ID)
		if err != nil {
			return JournalEntry{}, err
		}
		entry.Lines = append(entry.Lines, el)
	}
	return entry, nil
}

// List returns journal entries with their lines, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]JournalEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.pool.Query(ctx, `SELECT id, date, description, kind, source_module, COALESCE(source_id, 0), created_at
FROM journal_entries
WHERE date >= COALESCE($1, '-infinity'::timestamptz)
  AND date <= COALESCE($2, 'infinity'::timestamptz)
  AND ($3 = '' OR kind = $3)
ORDER BY date DESC, id DESC
LIMIT $4`, nullTime(filter.From), nullTime(filter.To), string(filter.Kind), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []JournalEntry
	index := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Description, &e.Kind, &e.SourceModule, &e.SourceID, &e.CreatedAt); err != nil {
			return nil, err
		}
		index[e.ID] = len(entries)
		ids = append(ids, e.ID)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return entries, nil
	}
	lineRows, err := r.pool.Query(ctx, `SELECT l.id, l.entry_id, l.account_id, a.code, a.name, l.debit, l.credit
FROM entry_lines l JOIN accounts a ON a.id = l.account_id
WHERE l.entry_id = ANY($1)
ORDER BY l.entry_id, l.id ASC`, ids)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var line EntryLine
		if err := lineRows.Scan(&line.ID, &line.EntryID, &line.AccountID, &line.AccountCode, &line.AccountName, &line.Debit, &line.Credit); err != nil {
			return nil, err
		}
		if idx, ok := index[line.EntryID]; ok {
			entries[idx].Lines = append(entries[idx].Lines, line)
		}
	}
	return entries, lineRows.Err()
}

// Get returns one entry with lines.
func (r *Repository) Get(ctx context.Context, id int64) (JournalEntry, error) {
	var e JournalEntry
	err := r.pool.QueryRow(ctx, `SELECT id, date, description, kind, source_module, COALESCE(source_id, 0), created_at
FROM journal_entries WHERE id=$1`, id).
		Scan(&e.ID, &e.Date, &e.Description, &e.Kind, &e.SourceModule, &e.SourceID, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, shared.ErrJournalNotFound
		}
		return JournalEntry{}, err
	}
	rows, err := r.pool.Query(ctx, `SELECT l.id, l.entry_id, l.account_id, a.code, a.name, l.debit, l.credit
FROM entry_lines l JOIN accounts a ON a.id = l.account_id
WHERE l.entry_id=$1 ORDER BY l.id ASC`, id)
	if err != nil {
		return JournalEntry{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var line EntryLine
		if err := rows.Scan(&line.ID, &line.EntryID, &line.AccountID, &line.AccountCode, &line.AccountName, &line.Debit, &line.Credit); err != nil {
			return JournalEntry{}, err
		}
		e.Lines = append(e.Lines, line)
	}
	return e, rows.Err()
}

// UnbalancedEntryIDs returns ids of persisted entries whose lines do not sum
// to equal debit and credit. Consumed by the periodic integrity sweep.
func (r *Repository) UnbalancedEntryIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT entry_id FROM entry_lines
GROUP BY entry_id HAVING SUM(debit) <> SUM(credit)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AccountNetBalance sums debits minus credits for one account over all time.
func (r *Repository) AccountNetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	var debit, credit decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(debit),0), COALESCE(SUM(credit),0)
FROM entry_lines WHERE account_id=$1`, accountID).Scan(&debit, &credit)
	if err != nil {
		return decimal.Zero, err
	}
	return debit.Sub(credit), nil
}

func nullInt64(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
