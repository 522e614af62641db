package customers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists customers in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const customerColumns = `id, first_name, last_name, doc_number, birth_date, address, phone, email, created_at, updated_at`

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.DocNumber, &c.BirthDate, &c.Address, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, ErrCustomerNotFound
		}
		return Customer{}, err
	}
	return c, nil
}

// List returns all customers ordered by last name.
func (r *Repository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY last_name, first_name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Get returns one customer.
func (r *Repository) Get(ctx context.Context, id int64) (Customer, error) {
	return scanCustomer(r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id))
}

// Create inserts a customer.
func (r *Repository) Create(ctx context.Context, c Customer) (Customer, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO customers (first_name, last_name, doc_number, birth_date, address, phone, email)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at, updated_at`,
		c.FirstName, c.LastName, c.DocNumber, c.BirthDate, c.Address, c.Phone, c.Email).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

// Update rewrites a customer.
func (r *Repository) Update(ctx context.Context, c Customer) (Customer, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE customers SET first_name=$2, last_name=$3, doc_number=$4, birth_date=$5, address=$6, phone=$7, email=$8, updated_at=NOW() WHERE id=$1`,
		c.ID, c.FirstName, c.LastName, c.DocNumber, c.BirthDate, c.Address, c.Phone, c.Email)
	if err != nil {
		return Customer{}, err
	}
	if cmd.RowsAffected() == 0 {
		return Customer{}, ErrCustomerNotFound
	}
	return r.Get(ctx, c.ID)
}

// Delete removes a customer.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
