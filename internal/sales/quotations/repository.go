package quotations

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lucero-pos/lucero-pos/internal/platform/db"
)

// Repository persists quotes in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a quote and its lines in one transaction.
func (r *Repository) Create(ctx context.Context, q Quote) (Quote, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO quotes (customer_id, date, valid_until, subtotal, discount_pct, total, notes)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at`,
			q.CustomerID, q.Date, q.ValidUntil, q.Subtotal, q.DiscountPct, q.Total, q.Notes).
			Scan(&q.ID, &q.CreatedAt)
		if err != nil {
			return err
		}
		for i := range q.Lines {
			line := &q.Lines[i]
			line.QuoteID = q.ID
			err := tx.QueryRow(ctx, `INSERT INTO quote_lines (quote_id, product_id, product_name, quantity, unit_price, discount_pct, subtotal, total)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`,
				line.QuoteID, line.ProductID, line.ProductName, line.Quantity, line.UnitPrice, line.DiscountPct, line.Subtotal, line.Total).
				Scan(&line.ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Quote{}, err
	}
	return q, nil
}

const quoteColumns = `id, customer_id, date, valid_until, subtotal, discount_pct, total, notes, created_at`

func scanQuote(row pgx.Row) (Quote, error) {
	var q Quote
	err := row.Scan(&q.ID, &q.CustomerID, &q.Date, &q.ValidUntil, &q.Subtotal, &q.DiscountPct, &q.Total, &q.Notes, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quote{}, ErrQuoteNotFound
		}
		return Quote{}, err
	}
	return q, nil
}

// Get returns one quote with lines.
func (r *Repository) Get(ctx context.Context, id int64) (Quote, error) {
	q, err := scanQuote(r.pool.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id=$1`, id))
	if err != nil {
		return Quote{}, err
	}
	list := []Quote{q}
	if err := r.attachLines(ctx, list); err != nil {
		return Quote{}, err
	}
	return list[0], nil
}

// List returns quotes matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Quote, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `SELECT `+quoteColumns+` FROM quotes
WHERE date >= COALESCE($1, '-infinity'::timestamptz)
  AND date <= COALESCE($2, 'infinity'::timestamptz)
ORDER BY date DESC, id DESC
LIMIT $3`, nullTime(filter.From), nullTime(filter.To), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) attachLines(ctx context.Context, list []Quote) error {
	if len(list) == 0 {
		return nil
	}
	index := map[int64]int{}
	ids := make([]int64, 0, len(list))
	for i, q := range list {
		index[q.ID] = i
		ids = append(ids, q.ID)
	}
	rows, err := r.pool.Query(ctx, `SELECT id, quote_id, product_id, product_name, quantity, unit_price, discount_pct, subtotal, total
FROM quote_lines WHERE quote_id = ANY($1) ORDER BY quote_id, id ASC`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var line QuoteLine
		if err := rows.Scan(&line.ID, &line.QuoteID, &line.ProductID, &line.ProductName, &line.Quantity,
			&line.UnitPrice, &line.DiscountPct, &line.Subtotal, &line.Total); err != nil {
			return err
		}
		if i, ok := index[line.QuoteID]; ok {
			list[i].Lines = append(list[i].Lines, line)
		}
	}
	return rows.Err()
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
