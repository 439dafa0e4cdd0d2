package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// ErrInvoiceNotFound indicates that an invoice was not located in the DB.
var ErrInvoiceNotFound = errors.New("invoice not found")

// InvoiceRepo manages persistence for invoices.  Invoice numbers come
// from the app_settings counter; both the counter advance and the
// insert happen in the caller's transaction so numbers have no gaps on
// rollback.
type InvoiceRepo struct {
	db *sql.DB
}

func NewInvoiceRepo(db *sql.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

const invoiceColumns = `id, invoice_number, booking_id, customer_name, subtotal_cents, vat_cents, total_cents, vat_rate_bp, status, credit_of_id, issued_at, due_at, created_at, updated_at`

func scanInvoice(row interface{ Scan(...interface{}) error }) (model.Invoice, error) {
	var (
		inv      model.Invoice
		creditOf sql.NullInt64
		dueAt    sql.NullTime
	)
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.BookingID, &inv.CustomerName,
		&inv.SubtotalCents, &inv.VATCents, &inv.TotalCents, &inv.VATRateBP,
		&inv.Status, &creditOf, &inv.IssuedAt, &dueAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return model.Invoice{}, err
	}
	if creditOf.Valid {
		id := uint64(creditOf.Int64)
		inv.CreditOfID = &id
	}
	if dueAt.Valid {
		t := dueAt.Time
		inv.DueAt = &t
	}
	return inv, nil
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	const q = `INSERT INTO invoices (invoice_number, booking_id, customer_name, subtotal_cents, vat_cents, total_cents, vat_rate_bp, status, credit_of_id, issued_at, due_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var creditOf interface{}
	if inv.CreditOfID != nil {
		creditOf = *inv.CreditOfID
	}
	res, err := conn(ctx, r.db).ExecContext(ctx, q,
		inv.InvoiceNumber, inv.BookingID, inv.CustomerName,
		inv.SubtotalCents, inv.VATCents, inv.TotalCents, inv.VATRateBP,
		inv.Status, creditOf, inv.IssuedAt.UTC(), nullableTime(inv.DueAt))
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = uint64(id)
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id uint64) (model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`
	inv, err := scanInvoice(conn(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Invoice{}, ErrInvoiceNotFound
		}
		return model.Invoice{}, err
	}
	return inv, nil
}

// List returns invoices, optionally filtered by booking, newest first.
func (r *InvoiceRepo) List(ctx context.Context, bookingID uint64) ([]model.Invoice, error) {
	q := `SELECT ` + invoiceColumns + ` FROM invoices`
	args := []interface{}{}
	if bookingID != 0 {
		q += ` WHERE booking_id = ?`
		args = append(args, bookingID)
	}
	q += ` ORDER BY created_at DESC, id DESC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	return result, rows.Err()
}

// UpdateStatus writes a new lifecycle status.  Transition legality is
// checked by the billing package before this is called.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, `UPDATE invoices SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT 1 FROM invoices WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrInvoiceNotFound
			}
			return err
		}
	}
	return nil
}
