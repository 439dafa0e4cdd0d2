package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// settingsID is the primary key of the singleton app_settings row,
// seeded by the schema migration.
const settingsID = 1

// SettingsRepo manages the singleton application settings row.
type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

func (r *SettingsRepo) Get(ctx context.Context) (model.AppSettings, error) {
	const q = `SELECT id, company_name, company_address, company_email, company_phone,
               invoice_prefix, invoice_seq, vat_rate_bp, default_show_time, updated_at
               FROM app_settings WHERE id = ?`
	var s model.AppSettings
	err := conn(ctx, r.db).QueryRowContext(ctx, q, settingsID).Scan(
		&s.ID, &s.CompanyName, &s.CompanyAddress, &s.CompanyEmail, &s.CompanyPhone,
		&s.InvoicePrefix, &s.InvoiceSeq, &s.VATRateBP, &s.DefaultShowTime, &s.UpdatedAt)
	return s, err
}

// Update patches the editable settings fields.  The invoice sequence is
// excluded; it only advances through NextInvoiceNumber.
func (r *SettingsRepo) Update(ctx context.Context, s *model.AppSettings) error {
	const q = `UPDATE app_settings SET company_name = ?, company_address = ?, company_email = ?, company_phone = ?,
               invoice_prefix = ?, vat_rate_bp = ?, default_show_time = ?
               WHERE id = ?`
	_, err := conn(ctx, r.db).ExecContext(ctx, q,
		s.CompanyName, s.CompanyAddress, s.CompanyEmail, s.CompanyPhone,
		s.InvoicePrefix, s.VATRateBP, s.DefaultShowTime, settingsID)
	return err
}

// NextInvoiceNumber advances the invoice counter and returns the
// formatted number (e.g. "INV-00042").  Must be called inside the same
// transaction that inserts the invoice; the row lock on app_settings
// serializes concurrent allocations.
func (r *SettingsRepo) NextInvoiceNumber(ctx context.Context) (string, error) {
	c := conn(ctx, r.db)
	var (
		prefix string
		seq    uint64
	)
	if err := c.QueryRowContext(ctx,
		`SELECT invoice_prefix, invoice_seq FROM app_settings WHERE id = ? FOR UPDATE`, settingsID).
		Scan(&prefix, &seq); err != nil {
		return "", err
	}
	seq++
	if _, err := c.ExecContext(ctx,
		`UPDATE app_settings SET invoice_seq = ? WHERE id = ?`, seq, settingsID); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%05d", prefix, seq), nil
}
