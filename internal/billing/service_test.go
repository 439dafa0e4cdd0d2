package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/avelor/dinner-show-reservation/internal/model"
	"github.com/avelor/dinner-show-reservation/internal/repository"
)

type fakeStore struct {
	bookings map[uint64]model.Booking
	invoices map[uint64]*model.Invoice
	settings model.AppSettings
	seq      uint64
	nextID   uint64
	audits   []model.AuditLogEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings: map[uint64]model.Booking{},
		invoices: map[uint64]*model.Invoice{},
		settings: model.AppSettings{ID: 1, InvoicePrefix: "INV", VATRateBP: 1900},
	}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeStore) BookingByID(_ context.Context, id uint64) (model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return model.Booking{}, repository.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeStore) InvoiceByID(_ context.Context, id uint64) (model.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return model.Invoice{}, repository.ErrInvoiceNotFound
	}
	return *inv, nil
}

func (f *fakeStore) CreateInvoice(_ context.Context, inv *model.Invoice) error {
	f.nextID++
	inv.ID = f.nextID
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeStore) SetInvoiceStatus(_ context.Context, id uint64, status string) error {
	inv, ok := f.invoices[id]
	if !ok {
		return repository.ErrInvoiceNotFound
	}
	inv.Status = status
	return nil
}

func (f *fakeStore) AppSettings(_ context.Context) (model.AppSettings, error) {
	return f.settings, nil
}

func (f *fakeStore) NextInvoiceNumber(_ context.Context) (string, error) {
	f.seq++
	return fmt.Sprintf("%s-%05d", f.settings.InvoicePrefix, f.seq), nil
}

func (f *fakeStore) AppendAudit(_ context.Context, e model.AuditLogEntry) error {
	f.audits = append(f.audits, e)
	return nil
}

func newTestService(st *fakeStore) *Service {
	svc := NewService(st)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestSplitGross(t *testing.T) {
	cases := []struct {
		gross  int64
		rateBP int
		net    int64
		vat    int64
	}{
		{11900, 1900, 10000, 1900},
		{15800, 1900, 13277, 2523},
		{5000, 0, 5000, 0},
		{0, 1900, 0, 0},
		{101, 700, 94, 7},
	}
	for _, c := range cases {
		net, vat := SplitGross(c.gross, c.rateBP)
		if net != c.net || vat != c.vat {
			t.Errorf("SplitGross(%d, %d) = (%d, %d), want (%d, %d)", c.gross, c.rateBP, net, vat, c.net, c.vat)
		}
		if net+vat != c.gross {
			t.Errorf("SplitGross(%d, %d): net+vat = %d, must equal gross", c.gross, c.rateBP, net+vat)
		}
	}
}

func TestCreateForBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a numbered draft with VAT split out", func(t *testing.T) {
		st := newFakeStore()
		st.bookings[5] = model.Booking{ID: 5, Status: model.BookingStatusConfirmed, CustomerName: "Eva Janssen", TotalPriceCents: 11900}
		svc := newTestService(st)

		inv, err := svc.CreateForBooking(ctx, 5, 14, "admin@show.example")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if inv.InvoiceNumber != "INV-00001" {
			t.Fatalf("number = %q", inv.InvoiceNumber)
		}
		if inv.Status != model.InvoiceStatusDraft {
			t.Fatalf("status = %s", inv.Status)
		}
		if inv.SubtotalCents != 10000 || inv.VATCents != 1900 || inv.TotalCents != 11900 {
			t.Fatalf("amounts = %d/%d/%d", inv.SubtotalCents, inv.VATCents, inv.TotalCents)
		}
		if inv.DueAt == nil || !inv.DueAt.Equal(time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)) {
			t.Fatalf("due at = %v", inv.DueAt)
		}
	})

	t.Run("rejected bookings are not invoiceable", func(t *testing.T) {
		st := newFakeStore()
		st.bookings[5] = model.Booking{ID: 5, Status: model.BookingStatusRejected}
		svc := newTestService(st)
		if _, err := svc.CreateForBooking(ctx, 5, 0, "admin@show.example"); !errors.Is(err, ErrNotInvoiceable) {
			t.Fatalf("err = %v, want ErrNotInvoiceable", err)
		}
	})
}

func TestTransition(t *testing.T) {
	ctx := context.Background()

	setup := func(status string) (*Service, *fakeStore) {
		st := newFakeStore()
		st.nextID = 1
		st.invoices[1] = &model.Invoice{ID: 1, InvoiceNumber: "INV-00001", Status: status, TotalCents: 11900}
		return newTestService(st), st
	}

	t.Run("draft to sent to paid", func(t *testing.T) {
		svc, st := setup(model.InvoiceStatusDraft)
		if _, err := svc.Transition(ctx, 1, model.InvoiceStatusSent, "admin@show.example"); err != nil {
			t.Fatalf("sent: %v", err)
		}
		if _, err := svc.Transition(ctx, 1, model.InvoiceStatusPaid, "admin@show.example"); err != nil {
			t.Fatalf("paid: %v", err)
		}
		if st.invoices[1].Status != model.InvoiceStatusPaid {
			t.Fatalf("status = %s", st.invoices[1].Status)
		}
	})

	t.Run("overdue can still be paid", func(t *testing.T) {
		svc, _ := setup(model.InvoiceStatusOverdue)
		if _, err := svc.Transition(ctx, 1, model.InvoiceStatusPaid, "admin@show.example"); err != nil {
			t.Fatalf("paid: %v", err)
		}
	})

	t.Run("draft cannot jump to paid", func(t *testing.T) {
		svc, _ := setup(model.InvoiceStatusDraft)
		if _, err := svc.Transition(ctx, 1, model.InvoiceStatusPaid, "admin@show.example"); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("err = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("paid is terminal", func(t *testing.T) {
		svc, _ := setup(model.InvoiceStatusPaid)
		if _, err := svc.Transition(ctx, 1, model.InvoiceStatusSent, "admin@show.example"); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("err = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestCreditNote(t *testing.T) {
	ctx := context.Background()

	setup := func(status string) (*Service, *fakeStore) {
		st := newFakeStore()
		st.nextID = 1
		st.seq = 1
		st.invoices[1] = &model.Invoice{
			ID: 1, InvoiceNumber: "INV-00001", BookingID: 5, CustomerName: "Eva Janssen",
			SubtotalCents: 10000, VATCents: 1900, TotalCents: 11900, VATRateBP: 1900, Status: status,
		}
		return newTestService(st), st
	}

	t.Run("negates the amounts and retires the original", func(t *testing.T) {
		svc, st := setup(model.InvoiceStatusPaid)
		note, err := svc.CreditNote(ctx, 1, "admin@show.example")
		if err != nil {
			t.Fatalf("credit: %v", err)
		}
		if note.SubtotalCents != -10000 || note.VATCents != -1900 || note.TotalCents != -11900 {
			t.Fatalf("amounts = %d/%d/%d", note.SubtotalCents, note.VATCents, note.TotalCents)
		}
		if note.Status != model.InvoiceStatusCredited || note.CreditOfID == nil || *note.CreditOfID != 1 {
			t.Fatalf("note = %+v", note)
		}
		if note.InvoiceNumber != "INV-00002" {
			t.Fatalf("number = %q", note.InvoiceNumber)
		}
		if st.invoices[1].Status != model.InvoiceStatusCredited {
			t.Fatalf("original status = %s", st.invoices[1].Status)
		}
	})

	t.Run("draft cannot be credited", func(t *testing.T) {
		svc, _ := setup(model.InvoiceStatusDraft)
		if _, err := svc.CreditNote(ctx, 1, "admin@show.example"); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("err = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("crediting twice fails", func(t *testing.T) {
		svc, _ := setup(model.InvoiceStatusSent)
		if _, err := svc.CreditNote(ctx, 1, "admin@show.example"); err != nil {
			t.Fatalf("first credit: %v", err)
		}
		if _, err := svc.CreditNote(ctx, 1, "admin@show.example"); !errors.Is(err, ErrAlreadyCredited) {
			t.Fatalf("err = %v, want ErrAlreadyCredited", err)
		}
	})
}
