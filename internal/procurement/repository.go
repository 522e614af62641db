package procurement

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

// Repository persists purchases in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// PostPurchase commits a purchase atomically: header, lines, stock
// increments with cost overwrite, and the ledger entry land together. The
// entries factory receives the purchase id so the posting can reference its
// source row.
func (r *Repository) PostPurchase(ctx context.Context, p Purchase, entries func(purchaseID int64) []journals.PostingInput) (Purchase, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO purchases (supplier_id, date, payment, invoice, total)
VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at`,
			p.SupplierID, p.Date, string(p.Payment), p.Invoice, p.Total).
			Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return err
		}
		for i := range p.Lines {
			line := &p.Lines[i]
			line.PurchaseID = p.ID
			cost := line.UnitCost
			if err := products.IncrementStockTx(ctx, tx, line.ProductID, line.Quantity, &cost); err != nil {
				return err
			}
			err := tx.QueryRow(ctx, `INSERT INTO purchase_lines (purchase_id, product_id, product_name, quantity, unit_cost, total)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
				line.PurchaseID, line.ProductID, line.ProductName, line.Quantity, line.UnitCost, line.Total).
				Scan(&line.ID)
			if err != nil {
				return err
			}
		}
		for _, in := range entries(p.ID) {
			if _, err := journals.InsertEntryTx(ctx, tx, in); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Purchase{}, err
	}
	return p, nil
}

const purchaseColumns = `p.id, p.supplier_id, COALESCE(s.name, ''), p.date, p.payment, p.invoice, p.total, p.created_at`

func scanPurchase(row pgx.Row) (Purchase, error) {
	var p Purchase
	err := row.Scan(&p.ID, &p.SupplierID, &p.SupplierName, &p.Date, &p.Payment, &p.Invoice, &p.Total, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Purchase{}, ErrPurchaseNotFound
		}
		return Purchase{}, err
	}
	return p, nil
}

// Get returns one purchase with lines.
func (r *Repository) Get(ctx context.Context, id int64) (Purchase, error) {
	p, err := scanPurchase(r.pool.QueryRow(ctx, `SELECT `+purchaseColumns+`
FROM purchases p LEFT JOIN suppliers s ON s.id = p.supplier_id
WHERE p.id=$1`, id))
	if err != nil {
		return Purchase{}, err
	}
	list := []Purchase{p}
	if err := r.attachLines(ctx, list); err != nil {
		return Purchase{}, err
	}
	return list[0], nil
}

// List returns purchases matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Purchase, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `SELECT `+purchaseColumns+`
FROM purchases p LEFT JOIN suppliers s ON s.id = p.supplier_id
WHERE p.date >= COALESCE($1, '-infinity'::timestamptz)
  AND p.date <= COALESCE($2, 'infinity'::timestamptz)
  AND ($3 = 0 OR p.supplier_id = $3)
ORDER BY p.date DESC, p.id DESC
LIMIT $4`, nullTime(filter.From), nullTime(filter.To), filter.SupplierID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) attachLines(ctx context.Context, list []Purchase) error {
	if len(list) == 0 {
		return nil
	}
	index := map[int64]int{}
	ids := make([]int64, 0, len(list))
	for i, p := range list {
		index[p.ID] = i
		ids = append(ids, p.ID)
	}
	rows, err := r.pool.Query(ctx, `SELECT id, purchase_id, product_id, product_name, quantity, unit_cost, total
FROM purchase_lines WHERE purchase_id = ANY($1) ORDER BY purchase_id, id ASC`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var line PurchaseLine
		if err := rows.Scan(&line.ID, &line.PurchaseID, &line.ProductID, &line.ProductName,
			&line.Quantity, &line.UnitCost, &line.Total); err != nil {
			return err
		}
		if i, ok := index[line.PurchaseID]; ok {
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
