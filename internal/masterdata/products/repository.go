package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lucero-pos/lucero-pos/internal/platform/db"
)

// Repository persists products in PostgreSQL.
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

const productColumns = `id, name, brand, barcode, sale_price, cost_price, stock_qty, image_path, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Brand, &p.Barcode, &p.SalePrice, &p.CostPrice, &p.StockQty, &p.ImagePath, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// List returns products matching the optional search term, ordered by name.
func (r *Repository) List(ctx context.Context, search string) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products
WHERE $1 = '' OR name ILIKE '%'||$1||'%' OR barcode = $1
ORDER BY name ASC`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachCategories(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Get returns one product with its categories.
func (r *Repository) Get(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if err != nil {
		return Product{}, err
	}
	list := []Product{p}
	if err := r.attachCategories(ctx, list); err != nil {
		return Product{}, err
	}
	return list[0], nil
}

// Create inserts a product and its category links.
func (r *Repository) Create(ctx context.Context, p Product, categoryIDs []int64) (Product, error) {
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO products (name, brand, barcode, sale_price, cost_price, stock_qty, image_path)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at, updated_at`,
			p.Name, p.Brand, p.Barcode, p.SalePrice, p.CostPrice, p.StockQty, p.ImagePath).
			Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return err
		}
		return replaceCategoryLinks(ctx, tx, p.ID, categoryIDs)
	})
	if err != nil {
		return Product{}, err
	}
	return r.Get(ctx, p.ID)
}

// Update rewrites a product's editable fields and category links.
func (r *Repository) Update(ctx context.Context, p Product, categoryIDs []int64) (Product, error) {
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `UPDATE products SET name=$2, brand=$3, barcode=$4, sale_price=$5, cost_price=$6, stock_qty=$7, image_path=$8, updated_at=NOW()
WHERE id=$1`, p.ID, p.Name, p.Brand, p.Barcode, p.SalePrice, p.CostPrice, p.StockQty, p.ImagePath)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrProductNotFound
		}
		return replaceCategoryLinks(ctx, tx, p.ID, categoryIDs)
	})
	if err != nil {
		return Product{}, err
	}
	return r.Get(ctx, p.ID)
}

// Delete removes a product.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func replaceCategoryLinks(ctx context.Context, tx pgx.Tx, productID int64, categoryIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM product_categories WHERE product_id=$1`, productID); err != nil {
		return err
	}
	for _, catID := range categoryIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO product_categories (product_id, category_id) VALUES ($1,$2)`, productID, catID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) attachCategories(ctx context.Context, list []Product) error {
	if len(list) == 0 {
		return nil
	}
	index := map[int64]int{}
	ids := make([]int64, 0, len(list))
	for i, p := range list {
		index[p.ID] = i
		ids = append(ids, p.ID)
	}
	rows, err := r.pool.Query(ctx, `SELECT pc.product_id, c.id, c.name
FROM product_categories pc JOIN categories c ON c.id = pc.category_id
WHERE pc.product_id = ANY($1) ORDER BY c.name ASC`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var productID int64
		var c Category
		if err := rows.Scan(&productID, &c.ID, &c.Name); err != nil {
			return err
		}
		if i, ok := index[productID]; ok {
			list[i].Categories = append(list[i].Categories, c)
		}
	}
	return rows.Err()
}

// ListCategories returns all categories.
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CreateCategory inserts one category.
func (r *Repository) CreateCategory(ctx context.Context, name string) (Category, error) {
	var c Category
	c.Name = name
	err := r.pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&c.ID)
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

// PriceList returns id -> current sale price for every product. The POS form
// keeps this client-side for instant line pricing.
func (r *Repository) PriceList(ctx context.Context) (map[int64]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, sale_price FROM products`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	prices := map[int64]decimal.Decimal{}
	for rows.Next() {
		var id int64
		var price decimal.Decimal
		if err := rows.Scan(&id, &price); err != nil {
			return nil, err
		}
		prices[id] = price
	}
	return prices, rows.Err()
}

// DecrementStockTx atomically subtracts qty, refusing to go below zero. The
// conditional UPDATE closes the read-then-write oversell race: under
// concurrent sales only one transaction can win the remaining stock.
func DecrementStockTx(ctx context.Context, tx pgx.Tx, id int64, qty int) error {
	cmd, err := tx.Exec(ctx, `UPDATE products SET stock_qty = stock_qty - $2, updated_at=NOW()
WHERE id=$1 AND stock_qty >= $2`, id, qty)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", ErrInsufficientStock, id)
	}
	return nil
}

// IncrementStockTx adds qty and optionally overwrites the cost basis.
func IncrementStockTx(ctx context.Context, tx pgx.Tx, id int64, qty int, newCost *decimal.Decimal) error {
	var cmd pgconn.CommandTag
	var err error
	if newCost != nil {
		cmd, err = tx.Exec(ctx, `UPDATE products SET stock_qty = stock_qty + $2, cost_price=$3, updated_at=NOW() WHERE id=$1`, id, qty, *newCost)
	} else {
		cmd, err = tx.Exec(ctx, `UPDATE products SET stock_qty = stock_qty + $2, updated_at=NOW() WHERE id=$1`, id, qty)
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
