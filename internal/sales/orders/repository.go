package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lucero-pos/lucero-pos/internal/accounting/journals"
	"github.com/lucero-pos/lucero-pos/internal/masterdata/products"
	"github.com/lucero-pos/lucero-pos/internal/platform/db"
)

// Repository persists sales in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// PostSale commits a sale atomically: header, lines, stock decrements,
// payments, and journal entries either all land or none do. The header is
// inserted first with zero totals so lines can reference it, then updated
// once every line has cleared its stock check. The entries factory receives
// the sale id so postings can reference their source row.
func (r *Repository) PostSale(ctx context.Context, sale Sale, entries func(saleID int64) []journals.PostingInput) (Sale, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO sales (session_id, customer_id, date, subtotal, discount_pct, discount_fixed, total, paid, change)
VALUES ($1,$2,$3,0,$4,$5,0,0,0) RETURNING id, created_at`,
			sale.SessionID, sale.CustomerID, sale.Date, sale.DiscountPct, sale.DiscountFixed).
			Scan(&sale.ID, &sale.CreatedAt)
		if err != nil {
			return err
		}
		for i := range sale.Lines {
			line := &sale.Lines[i]
			line.SaleID = sale.ID
			if err := products.DecrementStockTx(ctx, tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
			err := tx.QueryRow(ctx, `INSERT INTO sale_lines (sale_id, product_id, product_name, quantity, unit_price, discount_pct, subtotal, total)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`,
				line.SaleID, line.ProductID, line.ProductName, line.Quantity, line.UnitPrice, line.DiscountPct, line.Subtotal, line.Total).
				Scan(&line.ID)
			if err != nil {
				return err
			}
		}
		_, err = tx.Exec(ctx, `UPDATE sales SET subtotal=$2, total=$3, paid=$4, change=$5 WHERE id=$1`,
			sale.ID, sale.Subtotal, sale.Total, sale.Paid, sale.Change)
		if err != nil {
			return err
		}
		for i := range sale.Payments {
			payment := &sale.Payments[i]
			payment.SaleID = sale.ID
			err := tx.QueryRow(ctx, `INSERT INTO sale_payments (sale_id, method, amount) VALUES ($1,$2,$3) RETURNING id`,
				payment.SaleID, string(payment.Method), payment.Amount).Scan(&payment.ID)
			if err != nil {
				return err
			}
		}
		for _, in := range entries(sale.ID) {
			if _, err := journals.InsertEntryTx(ctx, tx, in); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

const saleColumns = `id, session_id, customer_id, date, subtotal, discount_pct, discount_fixed, total, paid, change, created_at`

func scanSale(row pgx.Row) (Sale, error) {
	var s Sale
	err := row.Scan(&s.ID, &s.SessionID, &s.CustomerID, &s.Date, &s.Subtotal, &s.DiscountPct,
		&s.DiscountFixed, &s.Total, &s.Paid, &s.Change, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sale{}, ErrSaleNotFound
		}
		return Sale{}, err
	}
	return s, nil
}

// Get returns one sale with lines and payments.
func (r *Repository) Get(ctx context.Context, id int64) (Sale, error) {
	s, err := scanSale(r.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id=$1`, id))
	if err != nil {
		return Sale{}, err
	}
	list := []Sale{s}
	if err := r.attachDetails(ctx, list); err != nil {
		return Sale{}, err
	}
	return list[0], nil
}

// List returns sales matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Sale, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `SELECT `+saleColumns+` FROM sales
WHERE date >= COALESCE($1, '-infinity'::timestamptz)
  AND date <= COALESCE($2, 'infinity'::timestamptz)
  AND ($3 = 0 OR session_id = $3)
ORDER BY date DESC, id DESC
LIMIT $4`, nullTime(filter.From), nullTime(filter.To), filter.SessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachDetails(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) attachDetails(ctx context.Context, list []Sale) error {
	if len(list) == 0 {
		return nil
	}
	index := map[int64]int{}
	ids := make([]int64, 0, len(list))
	for i, s := range list {
		index[s.ID] = i
		ids = append(ids, s.ID)
	}
	rows, err := r.pool.Query(ctx, `SELECT id, sale_id, product_id, product_name, quantity, unit_price, discount_pct, subtotal, total
FROM sale_lines WHERE sale_id = ANY($1) ORDER BY sale_id, id ASC`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var line SaleLine
		if err := rows.Scan(&line.ID, &line.SaleID, &line.ProductID, &line.ProductName, &line.Quantity,
			&line.UnitPrice, &line.DiscountPct, &line.Subtotal, &line.Total); err != nil {
			return err
		}
		if i, ok := index[line.SaleID]; ok {
			list[i].Lines = append(list[i].Lines, line)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	paymentRows, err := r.pool.Query(ctx, `SELECT id, sale_id, method, amount
FROM sale_payments WHERE sale_id = ANY($1) ORDER BY sale_id, id ASC`, ids)
	if err != nil {
		return err
	}
	defer paymentRows.Close()
	for paymentRows.Next() {
		var p Payment
		if err := paymentRows.Scan(&p.ID, &p.SaleID, &p.Method, &p.Amount); err != nil {
			return err
		}
		if i, ok := index[p.SaleID]; ok {
			list[i].Payments = append(list[i].Payments, p)
		}
	}
	return paymentRows.Err()
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
