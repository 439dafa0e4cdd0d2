// Package billing derives invoices and credit notes from bookings.
// Amounts are integer cents; the VAT rate lives in basis points on the
// app settings so 19% is stored as 1900.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// Store is the persistence surface billing needs.  *repository.Store
// satisfies it.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	BookingByID(ctx context.Context, id uint64) (model.Booking, error)
	InvoiceByID(ctx context.Context, id uint64) (model.Invoice, error)
	CreateInvoice(ctx context.Context, inv *model.Invoice) error
	SetInvoiceStatus(ctx context.Context, id uint64, status string) error
	AppSettings(ctx context.Context) (model.AppSettings, error)
	NextInvoiceNumber(ctx context.Context) (string, error)
	AppendAudit(ctx context.Context, e model.AuditLogEntry) error
}

var (
	// ErrInvalidTransition is returned when an invoice status change is
	// not allowed from the current status.
	ErrInvalidTransition = errors.New("invoice status transition not allowed")
	// ErrNotInvoiceable is returned when the booking's status does not
	// permit invoicing.
	ErrNotInvoiceable = errors.New("booking cannot be invoiced in its current status")
	// ErrAlreadyCredited is returned when crediting a credit note or an
	// already credited invoice.
	ErrAlreadyCredited = errors.New("invoice already credited")
)

// Service issues invoices, walks them through their lifecycle and
// writes credit notes.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService builds a billing Service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// SplitGross decomposes a gross amount into net and VAT for a rate in
// basis points.  Net and VAT always add up to the gross exactly; the
// rounding cent lands in the VAT part.
func SplitGross(grossCents int64, rateBP int) (netCents, vatCents int64) {
	if rateBP <= 0 {
		return grossCents, 0
	}
	netCents = grossCents * 10000 / (10000 + int64(rateBP))
	vatCents = grossCents - netCents
	return netCents, vatCents
}

// CreateForBooking issues a draft invoice over the booking's total.
// The invoice number comes from the settings counter inside the same
// transaction, so numbers are gapless per committed invoice.
func (s *Service) CreateForBooking(ctx context.Context, bookingID uint64, dueInDays int, actor string) (model.Invoice, error) {
	var out model.Invoice
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		b, err := s.store.BookingByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status == model.BookingStatusRejected || b.Status == model.BookingStatusMovedToWaitlist {
			return fmt.Errorf("%w: %s", ErrNotInvoiceable, b.Status)
		}
		settings, err := s.store.AppSettings(ctx)
		if err != nil {
			return err
		}
		number, err := s.store.NextInvoiceNumber(ctx)
		if err != nil {
			return err
		}

		net, vat := SplitGross(b.TotalPriceCents, settings.VATRateBP)
		now := s.now()
		inv := model.Invoice{
			InvoiceNumber: number,
			BookingID:     b.ID,
			CustomerName:  b.CustomerName,
			SubtotalCents: net,
			VATCents:      vat,
			TotalCents:    b.TotalPriceCents,
			VATRateBP:     settings.VATRateBP,
			Status:        model.InvoiceStatusDraft,
			IssuedAt:      now,
		}
		if dueInDays > 0 {
			due := now.AddDate(0, 0, dueInDays)
			inv.DueAt = &due
		}
		if err := s.store.CreateInvoice(ctx, &inv); err != nil {
			return err
		}
		if err := s.audit(ctx, actor, "invoice.create", inv.ID, map[string]any{
			"invoice_number": inv.InvoiceNumber,
			"booking_id":     b.ID,
			"total_cents":    inv.TotalCents,
		}); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return model.Invoice{}, err
	}
	return out, nil
}

// legalTransitions maps each status to the statuses it may move to.
var legalTransitions = map[string][]string{
	model.InvoiceStatusDraft:   {model.InvoiceStatusSent},
	model.InvoiceStatusSent:    {model.InvoiceStatusPaid, model.InvoiceStatusOverdue},
	model.InvoiceStatusOverdue: {model.InvoiceStatusPaid},
}

// Transition moves an invoice to a new lifecycle status.  Paid and
// credited invoices are terminal.
func (s *Service) Transition(ctx context.Context, invoiceID uint64, to, actor string) (model.Invoice, error) {
	var out model.Invoice
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		inv, err := s.store.InvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		allowed := false
		for _, next := range legalTransitions[inv.Status] {
			if next == to {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, inv.Status, to)
		}
		if err := s.store.SetInvoiceStatus(ctx, inv.ID, to); err != nil {
			return err
		}
		if err := s.audit(ctx, actor, "invoice.transition", inv.ID, map[string]any{
			"invoice_number": inv.InvoiceNumber,
			"from":           inv.Status,
			"to":             to,
		}); err != nil {
			return err
		}
		inv.Status = to
		out = inv
		return nil
	})
	if err != nil {
		return model.Invoice{}, err
	}
	return out, nil
}

// CreditNote writes a credit note for an issued invoice: a new invoice
// with negated amounts referencing the original, which itself moves to
// "credited".  Draft invoices cannot be credited, and crediting twice
// fails.
func (s *Service) CreditNote(ctx context.Context, invoiceID uint64, actor string) (model.Invoice, error) {
	var out model.Invoice
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		orig, err := s.store.InvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if orig.CreditOfID != nil || orig.Status == model.InvoiceStatusCredited {
			return ErrAlreadyCredited
		}
		if orig.Status == model.InvoiceStatusDraft {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, orig.Status, model.InvoiceStatusCredited)
		}
		number, err := s.store.NextInvoiceNumber(ctx)
		if err != nil {
			return err
		}

		origID := orig.ID
		note := model.Invoice{
			InvoiceNumber: number,
			BookingID:     orig.BookingID,
			CustomerName:  orig.CustomerName,
			SubtotalCents: -orig.SubtotalCents,
			VATCents:      -orig.VATCents,
			TotalCents:    -orig.TotalCents,
			VATRateBP:     orig.VATRateBP,
			Status:        model.InvoiceStatusCredited,
			CreditOfID:    &origID,
			IssuedAt:      s.now(),
		}
		if err := s.store.CreateInvoice(ctx, &note); err != nil {
			return err
		}
		if err := s.store.SetInvoiceStatus(ctx, orig.ID, model.InvoiceStatusCredited); err != nil {
			return err
		}
		if err := s.audit(ctx, actor, "invoice.credit", orig.ID, map[string]any{
			"invoice_number": orig.InvoiceNumber,
			"credit_number":  note.InvoiceNumber,
		}); err != nil {
			return err
		}
		out = note
		return nil
	})
	if err != nil {
		return model.Invoice{}, err
	}
	return out, nil
}

func (s *Service) audit(ctx context.Context, actor, action string, entityID uint64, details map[string]any) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return s.store.AppendAudit(ctx, model.AuditLogEntry{
		Actor:      actor,
		Action:     action,
		EntityType: "invoice",
		EntityID:   entityID,
		Details:    string(raw),
	})
}
