package suppliers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists suppliers in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const supplierColumns = `id, name, tax_id, address, phone, email, created_at, updated_at`

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.TaxID, &s.Address, &s.Phone, &s.Email, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Supplier{}, ErrSupplierNotFound
		}
		return Supplier{}, err
	}
	return s, nil
}

// List returns all suppliers ordered by name.
func (r *Repository) List(ctx context.Context) ([]Supplier, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Get returns one supplier.
func (r *Repository) Get(ctx context.Context, id int64) (Supplier, error) {
	return scanSupplier(r.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id=$1`, id))
}

// Create inserts a supplier.
func (r *Repository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO suppliers (name, tax_id, address, phone, email)
VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at, updated_at`,
		s.Name, s.TaxID, s.Address, s.Phone, s.Email).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Supplier{}, err
	}
	return s, nil
}

// Update rewrites a supplier.
func (r *Repository) Update(ctx context.Context, s Supplier) (Supplier, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE suppliers SET name=$2, tax_id=$3, address=$4, phone=$5, email=$6, updated_at=NOW() WHERE id=$1`,
		s.ID, s.Name, s.TaxID, s.Address, s.Phone, s.Email)
	if err != nil {
		return Supplier{}, err
	}
	if cmd.RowsAffected() == 0 {
		return Supplier{}, ErrSupplierNotFound
	}
	return r.Get(ctx, s.ID)
}

// Delete removes a supplier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSupplierNotFound
	}
	return nil
}
