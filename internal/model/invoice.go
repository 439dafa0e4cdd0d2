package model

import "time"

// Invoice lifecycle statuses.  A credit note is a regular invoice with
// negated amounts whose CreditOfID references the credited invoice; it
// is created in status "credited" and never transitions further.
const (
	InvoiceStatusDraft    = "draft"
	InvoiceStatusSent     = "sent"
	InvoiceStatusPaid     = "paid"
	InvoiceStatusOverdue  = "overdue"
	InvoiceStatusCredited = "credited"
)

// Invoice is a derived billing document for a booking.  Amounts are
// stored in cents; SubtotalCents + VATCents always equals TotalCents.
type Invoice struct {
	ID            uint64     // invoices.id
	InvoiceNumber string     // invoices.invoice_number (unique, from settings counter)
	BookingID     uint64     // invoices.booking_id
	CustomerName  string     // invoices.customer_name (denormalized)
	SubtotalCents int64      // invoices.subtotal_cents (net)
	VATCents      int64      // invoices.vat_cents
	TotalCents    int64      // invoices.total_cents (gross)
	VATRateBP     int        // invoices.vat_rate_bp (basis points, e.g. 1900 = 19%)
	Status        string     // invoices.status
	CreditOfID    *uint64    // invoices.credit_of_id (nullable, set on credit notes)
	IssuedAt      time.Time  // invoices.issued_at
	DueAt         *time.Time // invoices.due_at (nullable)
	CreatedAt     time.Time  // invoices.created_at
	UpdatedAt     time.Time  // invoices.updated_at
}
