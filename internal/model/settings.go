package model

import "time"

// AppSettings is the singleton configuration row (id = 1).  It carries
// the company details printed on invoices, the invoice numbering state
// and the default VAT rate.  The invoice sequence is only advanced
// inside the transaction that creates an invoice.
type AppSettings struct {
	ID             uint64    // app_settings.id (always 1)
	CompanyName    string    // app_settings.company_name
	CompanyAddress string    // app_settings.company_address
	CompanyEmail   string    // app_settings.company_email
	CompanyPhone   string    // app_settings.company_phone
	InvoicePrefix  string    // app_settings.invoice_prefix (e.g. "INV")
	InvoiceSeq     uint64    // app_settings.invoice_seq (last used number)
	VATRateBP      int       // app_settings.vat_rate_bp (basis points)
	DefaultShowTime string   // app_settings.default_show_time ("15:04")
	UpdatedAt      time.Time // app_settings.updated_at
}
