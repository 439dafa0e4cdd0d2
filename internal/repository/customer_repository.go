package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// ErrCustomerNotFound indicates that a customer was not located in the DB.
var ErrCustomerNotFound = errors.New("customer not found")

// CustomerRepo manages persistence for customers.
type CustomerRepo struct {
	db *sql.DB
}

func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// UpsertByEmail inserts a customer or refreshes the contact details of
// an existing row with the same email.  Called from the booking
// submission transaction so repeat guests keep a single record.
func (r *CustomerRepo) UpsertByEmail(ctx context.Context, c *model.Customer) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	const q = `INSERT INTO customers (name, email, phone, address) VALUES (?, ?, ?, ?)
               ON DUPLICATE KEY UPDATE name = VALUES(name), phone = VALUES(phone), address = VALUES(address)`
	res, err := conn(ctx, r.db).ExecContext(ctx, q, c.Name, c.Email, c.Phone, c.Address)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		c.ID = uint64(id)
	}
	return nil
}

func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (model.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `SELECT id, name, email, phone, address, created_at, updated_at FROM customers WHERE email = ?`
	var c model.Customer
	err := conn(ctx, r.db).QueryRowContext(ctx, q, email).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Customer{}, ErrCustomerNotFound
		}
		return model.Customer{}, err
	}
	return c, nil
}

func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	const q = `SELECT id, name, email, phone, address, created_at, updated_at FROM customers ORDER BY name ASC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
