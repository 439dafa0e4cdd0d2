package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/avelor/dinner-show-reservation/internal/model"
	"github.com/avelor/dinner-show-reservation/internal/pricing"
	"github.com/avelor/dinner-show-reservation/internal/queue"
	"github.com/avelor/dinner-show-reservation/internal/repository"
)

// fakeStore is an in-memory Store.  WithTx simply runs the function;
// the orchestrator's locking semantics are exercised against MySQL, the
// business rules against this fake.
type fakeStore struct {
	slots       map[uint64]*model.ShowSlot
	packages    map[uint64]model.PackageOption
	merch       map[uint64]model.MerchandiseItem
	promos      map[uint64]*model.PromoCode
	bookings    map[uint64]*model.Booking
	byKey       map[string]uint64
	waiting     map[uint64]*model.WaitingListEntry
	customers   map[string]model.Customer
	audits      []model.AuditLogEntry
	nextBooking uint64
	nextWaiting uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		slots:     map[uint64]*model.ShowSlot{},
		packages:  map[uint64]model.PackageOption{},
		merch:     map[uint64]model.MerchandiseItem{},
		promos:    map[uint64]*model.PromoCode{},
		bookings:  map[uint64]*model.Booking{},
		byKey:     map[string]uint64{},
		waiting:   map[uint64]*model.WaitingListEntry{},
		customers: map[string]model.Customer{},
	}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeStore) ShowSlotForUpdate(_ context.Context, id uint64) (model.ShowSlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return model.ShowSlot{}, repository.ErrShowSlotNotFound
	}
	return *s, nil
}

func (f *fakeStore) AdjustBookedCount(_ context.Context, slotID uint64, delta int) error {
	s, ok := f.slots[slotID]
	if !ok {
		return repository.ErrShowSlotNotFound
	}
	s.BookedCount += delta
	if s.BookedCount < 0 {
		s.BookedCount = 0
	}
	return nil
}

func (f *fakeStore) PackageByID(_ context.Context, id uint64) (model.PackageOption, error) {
	p, ok := f.packages[id]
	if !ok {
		return model.PackageOption{}, repository.ErrPackageNotFound
	}
	return p, nil
}

func (f *fakeStore) MerchandiseByIDs(_ context.Context, ids []uint64) (map[uint64]model.MerchandiseItem, error) {
	out := map[uint64]model.MerchandiseItem{}
	for _, id := range ids {
		if m, ok := f.merch[id]; ok && m.IsActive {
			out[id] = m
		}
	}
	return out, nil
}

func (f *fakeStore) PromoByCodeForUpdate(_ context.Context, code string) (model.PromoCode, error) {
	for _, p := range f.promos {
		if p.Code == code {
			return *p, nil
		}
	}
	return model.PromoCode{}, repository.ErrPromoCodeNotFound
}

func (f *fakeStore) IncrementPromoUsage(_ context.Context, id uint64) error {
	p, ok := f.promos[id]
	if !ok {
		return repository.ErrPromoCodeNotFound
	}
	p.TimesUsed++
	return nil
}

func (f *fakeStore) BookingForUpdate(_ context.Context, id uint64) (model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return model.Booking{}, repository.ErrBookingNotFound
	}
	return *b, nil
}

func (f *fakeStore) BookingBySubmissionKey(_ context.Context, key string) (*model.Booking, error) {
	id, ok := f.byKey[key]
	if !ok {
		return nil, nil
	}
	b := *f.bookings[id]
	return &b, nil
}

func (f *fakeStore) CreateBooking(_ context.Context, b *model.Booking) error {
	if _, ok := f.byKey[b.SubmissionKey]; ok {
		return repository.ErrDuplicateSubmission
	}
	f.nextBooking++
	b.ID = f.nextBooking
	cp := *b
	f.bookings[b.ID] = &cp
	f.byKey[b.SubmissionKey] = b.ID
	return nil
}

func (f *fakeStore) UpdateBooking(_ context.Context, b *model.Booking) error {
	if _, ok := f.bookings[b.ID]; !ok {
		return repository.ErrBookingNotFound
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeStore) UpsertCustomer(_ context.Context, c *model.Customer) error {
	f.customers[c.Email] = *c
	return nil
}

func (f *fakeStore) WaitingEntryForUpdate(_ context.Context, id uint64) (model.WaitingListEntry, error) {
	e, ok := f.waiting[id]
	if !ok {
		return model.WaitingListEntry{}, repository.ErrWaitingEntryNotFound
	}
	return *e, nil
}

func (f *fakeStore) CreateWaitingEntry(_ context.Context, e *model.WaitingListEntry) error {
	f.nextWaiting++
	e.ID = f.nextWaiting
	cp := *e
	f.waiting[e.ID] = &cp
	return nil
}

func (f *fakeStore) SetWaitingEntryStatus(_ context.Context, id uint64, status string) error {
	e, ok := f.waiting[id]
	if !ok {
		return repository.ErrWaitingEntryNotFound
	}
	e.Status = status
	return nil
}

func (f *fakeStore) AppendAudit(_ context.Context, e model.AuditLogEntry) error {
	f.audits = append(f.audits, e)
	return nil
}

// racingStore hides a known submission key from exactly one replay
// check, reproducing a concurrent submit that commits between the
// check and the insert.
type racingStore struct {
	*fakeStore
	hideKeyOnce string
}

func (r *racingStore) BookingBySubmissionKey(ctx context.Context, key string) (*model.Booking, error) {
	if r.hideKeyOnce != "" && key == r.hideKeyOnce {
		r.hideKeyOnce = ""
		return nil, nil
	}
	return r.fakeStore.BookingBySubmissionKey(ctx, key)
}

type fakePublisher struct {
	events []queue.BookingEvent
}

func (p *fakePublisher) Publish(_ context.Context, ev queue.BookingEvent) error {
	p.events = append(p.events, ev)
	return nil
}

// fixture sets up a slot with capacity 10 and 8 guests booked, plus a
// flat-priced package with one add-on, and returns a service over it.
func fixture(t *testing.T) (*Service, *fakeStore, *fakePublisher) {
	t.Helper()
	st := newFakeStore()
	st.slots[1] = &model.ShowSlot{ID: 1, ShowDate: "2026-10-03", ShowTime: "19:30", Capacity: 10, BookedCount: 8}
	st.slots[2] = &model.ShowSlot{ID: 2, ShowDate: "2026-10-04", ShowTime: "19:30", Capacity: 10, BookedCount: 10}
	st.packages[7] = model.PackageOption{
		ID: 7, Name: "Dinner & Show", PriceCents: 7900, IsActive: true,
		AddOns: []model.AddOn{{ID: 1, Name: "Sparkling reception", PriceCents: 900}},
	}
	st.merch[3] = model.MerchandiseItem{ID: 3, Name: "Programme", PriceCents: 1200, IsActive: true}
	pub := &fakePublisher{}
	svc := NewService(st, pub)
	svc.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return svc, st, pub
}

func submitInput(slotID uint64, guests int) SubmitInput {
	return SubmitInput{
		ShowSlotID: slotID,
		PackageID:  7,
		Guests:     guests,
		Customer:   CustomerDetails{Name: "Eva Janssen", Email: "Eva@Example.com", Phone: "+31 6 1234"},
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms within capacity and holds seats", func(t *testing.T) {
		svc, st, pub := fixture(t)
		res, err := svc.Submit(ctx, submitInput(1, 2))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		b := res.Booking
		if b.Status != model.BookingStatusConfirmed || b.IsOverbooking {
			t.Fatalf("got status=%s overbooking=%v", b.Status, b.IsOverbooking)
		}
		if !b.CapacityHeld {
			t.Fatal("confirmed booking must hold capacity")
		}
		if got := st.slots[1].BookedCount; got != 10 {
			t.Fatalf("booked count = %d, want 10", got)
		}
		if b.TotalPriceCents != 2*7900 {
			t.Fatalf("total = %d, want %d", b.TotalPriceCents, 2*7900)
		}
		if b.CustomerEmail != "eva@example.com" {
			t.Fatalf("email not normalized: %q", b.CustomerEmail)
		}
		if len(pub.events) != 1 || pub.events[0].Kind != queue.EventBookingSubmitted {
			t.Fatalf("events = %+v", pub.events)
		}
	})

	t.Run("overbooking goes pending without touching the counter", func(t *testing.T) {
		svc, st, _ := fixture(t)
		res, err := svc.Submit(ctx, submitInput(1, 3))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		b := res.Booking
		if b.Status != model.BookingStatusPendingApproval || !b.IsOverbooking {
			t.Fatalf("got status=%s overbooking=%v", b.Status, b.IsOverbooking)
		}
		if b.CapacityHeld {
			t.Fatal("pending booking must not hold capacity")
		}
		if got := st.slots[1].BookedCount; got != 8 {
			t.Fatalf("booked count = %d, want 8", got)
		}
	})

	t.Run("defaults guests to one", func(t *testing.T) {
		svc, _, _ := fixture(t)
		in := submitInput(1, 0)
		res, err := svc.Submit(ctx, in)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if res.Booking.Guests != 1 {
			t.Fatalf("guests = %d, want 1", res.Booking.Guests)
		}
	})

	t.Run("replaying a submission key returns the original booking", func(t *testing.T) {
		svc, st, pub := fixture(t)
		in := submitInput(1, 2)
		in.SubmissionKey = "key-1"
		first, err := svc.Submit(ctx, in)
		if err != nil {
			t.Fatalf("first submit: %v", err)
		}
		second, err := svc.Submit(ctx, in)
		if err != nil {
			t.Fatalf("second submit: %v", err)
		}
		if !second.AlreadyExisted {
			t.Fatal("replay not flagged")
		}
		if second.Booking.ID != first.Booking.ID {
			t.Fatalf("replay created booking %d, want %d", second.Booking.ID, first.Booking.ID)
		}
		if got := st.slots[1].BookedCount; got != 10 {
			t.Fatalf("booked count = %d after replay, want 10", got)
		}
		if len(pub.events) != 1 {
			t.Fatalf("replay published %d extra events", len(pub.events)-1)
		}
	})

	t.Run("same key with different payload conflicts", func(t *testing.T) {
		svc, _, _ := fixture(t)
		in := submitInput(1, 2)
		in.SubmissionKey = "key-2"
		if _, err := svc.Submit(ctx, in); err != nil {
			t.Fatalf("first submit: %v", err)
		}
		in.Guests = 4
		if _, err := svc.Submit(ctx, in); !errors.Is(err, ErrIdempotencyConflict) {
			t.Fatalf("err = %v, want ErrIdempotencyConflict", err)
		}
	})

	t.Run("losing an insert race on the key returns the winner", func(t *testing.T) {
		svc, st, pub := fixture(t)
		in := submitInput(1, 2)
		in.SubmissionKey = "key-race"
		first, err := svc.Submit(ctx, in)
		if err != nil {
			t.Fatalf("first submit: %v", err)
		}

		racing := NewService(&racingStore{fakeStore: st, hideKeyOnce: "key-race"}, pub)
		racing.now = svc.now
		second, err := racing.Submit(ctx, in)
		if err != nil {
			t.Fatalf("racing submit: %v", err)
		}
		if !second.AlreadyExisted {
			t.Fatal("race loser not flagged as replay")
		}
		if second.Booking.ID != first.Booking.ID {
			t.Fatalf("race loser got booking %d, want %d", second.Booking.ID, first.Booking.ID)
		}
		if got := st.slots[1].BookedCount; got != 10 {
			t.Fatalf("booked count = %d after race, want 10", got)
		}
		if len(pub.events) != 1 {
			t.Fatalf("race loser published %d extra events", len(pub.events)-1)
		}
	})

	t.Run("closed slot rejects submissions", func(t *testing.T) {
		svc, st, _ := fixture(t)
		st.slots[1].IsManuallyClosed = true
		if _, err := svc.Submit(ctx, submitInput(1, 1)); !errors.Is(err, ErrShowSlotClosed) {
			t.Fatalf("err = %v, want ErrShowSlotClosed", err)
		}
	})

	t.Run("inactive package is not bookable", func(t *testing.T) {
		svc, st, _ := fixture(t)
		p := st.packages[7]
		p.IsActive = false
		st.packages[7] = p
		if _, err := svc.Submit(ctx, submitInput(1, 1)); !errors.Is(err, ErrPackageNotAllowed) {
			t.Fatalf("err = %v, want ErrPackageNotAllowed", err)
		}
	})

	t.Run("prices add-ons per guest and merchandise per line", func(t *testing.T) {
		svc, _, _ := fixture(t)
		in := submitInput(1, 2)
		in.AddOnIDs = []uint64{1}
		in.Merchandise = []MerchandiseSelection{{MerchandiseID: 3, Quantity: 2}}
		res, err := svc.Submit(ctx, in)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		want := int64(2*7900 + 2*900 + 2*1200)
		if res.Booking.TotalPriceCents != want {
			t.Fatalf("total = %d, want %d", res.Booking.TotalPriceCents, want)
		}
		if len(res.Booking.Merchandise) != 1 || res.Booking.Merchandise[0].UnitPriceCents != 1200 {
			t.Fatalf("merchandise lines = %+v", res.Booking.Merchandise)
		}
	})

	t.Run("promo discount is applied and usage counted", func(t *testing.T) {
		svc, st, _ := fixture(t)
		st.promos[1] = &model.PromoCode{ID: 1, Code: "SHOW10", Type: model.PromoTypePercentage, ValueCents: 10, IsActive: true}
		in := submitInput(1, 2)
		in.PromoCode = "show10"
		res, err := svc.Submit(ctx, in)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if res.Booking.DiscountCents != 1580 {
			t.Fatalf("discount = %d, want 1580", res.Booking.DiscountCents)
		}
		if res.Booking.TotalPriceCents != 2*7900-1580 {
			t.Fatalf("total = %d", res.Booking.TotalPriceCents)
		}
		if res.Booking.AppliedPromoCode != "SHOW10" {
			t.Fatalf("applied code = %q", res.Booking.AppliedPromoCode)
		}
		if st.promos[1].TimesUsed != 1 {
			t.Fatalf("times used = %d, want 1", st.promos[1].TimesUsed)
		}
	})

	t.Run("gift card larger than the subtotal floors the total at zero", func(t *testing.T) {
		svc, st, _ := fixture(t)
		st.promos[1] = &model.PromoCode{ID: 1, Code: "GIFT500", Type: model.PromoTypeGiftCard, ValueCents: 50000, IsActive: true}
		in := submitInput(1, 1)
		in.PromoCode = "GIFT500"
		res, err := svc.Submit(ctx, in)
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if res.Booking.TotalPriceCents != 0 {
			t.Fatalf("total = %d, want 0", res.Booking.TotalPriceCents)
		}
		if res.Booking.DiscountCents != 7900 {
			t.Fatalf("discount = %d, want 7900", res.Booking.DiscountCents)
		}
	})

	t.Run("failing promo aborts the submission", func(t *testing.T) {
		svc, st, _ := fixture(t)
		st.promos[1] = &model.PromoCode{ID: 1, Code: "DEAD", Type: model.PromoTypeFixedAmount, ValueCents: 500, IsActive: false}
		in := submitInput(1, 1)
		in.PromoCode = "DEAD"
		if _, err := svc.Submit(ctx, in); !errors.Is(err, pricing.ErrPromoInactive) {
			t.Fatalf("err = %v, want ErrPromoInactive", err)
		}
		if len(st.bookings) != 0 {
			t.Fatal("booking was created despite promo failure")
		}
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms the overbooking and pushes the counter past capacity", func(t *testing.T) {
		svc, st, pub := fixture(t)
		res, err := svc.Submit(ctx, submitInput(1, 3))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		b, err := svc.Approve(ctx, res.Booking.ID, "admin@show.example")
		if err != nil {
			t.Fatalf("approve: %v", err)
		}
		if b.Status != model.BookingStatusConfirmed || !b.CapacityHeld {
			t.Fatalf("got status=%s held=%v", b.Status, b.CapacityHeld)
		}
		if b.IsOverbooking {
			t.Fatal("overbooking flag not cleared by approval")
		}
		if got := st.slots[1].BookedCount; got != 11 {
			t.Fatalf("booked count = %d, want 11", got)
		}
		last := pub.events[len(pub.events)-1]
		if last.Kind != queue.EventBookingConfirmed {
			t.Fatalf("last event = %s", last.Kind)
		}
	})

	t.Run("rejects non-pending bookings", func(t *testing.T) {
		svc, _, _ := fixture(t)
		res, err := svc.Submit(ctx, submitInput(1, 2))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if _, err := svc.Approve(ctx, res.Booking.ID, "admin@show.example"); !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("err = %v, want ErrInvalidStatus", err)
		}
	})
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := fixture(t)
	res, err := svc.Submit(ctx, submitInput(1, 3))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	before := st.slots[1].BookedCount

	b, err := svc.Reject(ctx, res.Booking.ID, "admin@show.example", "show sold out")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if b.Status != model.BookingStatusRejected {
		t.Fatalf("status = %s", b.Status)
	}
	if got := st.slots[1].BookedCount; got != before {
		t.Fatalf("booked count changed: %d -> %d", before, got)
	}
	if _, err := svc.Reject(ctx, res.Booking.ID, "admin@show.example", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("second reject err = %v, want ErrInvalidStatus", err)
	}
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("releases held capacity", func(t *testing.T) {
		svc, st, _ := fixture(t)
		res, err := svc.Submit(ctx, submitInput(1, 2))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		b, err := svc.Cancel(ctx, res.Booking.ID, model.ActorUser, "change of plans")
		if err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if b.Status != model.BookingStatusCancelled || b.CapacityHeld {
			t.Fatalf("got status=%s held=%v", b.Status, b.CapacityHeld)
		}
		if b.CancelledBy != model.ActorUser || b.CancelledAt == nil {
			t.Fatalf("cancellation metadata missing: by=%q at=%v", b.CancelledBy, b.CancelledAt)
		}
		if got := st.slots[1].BookedCount; got != 8 {
			t.Fatalf("booked count = %d, want 8", got)
		}
	})

	t.Run("cancelling a pending overbooking never drives the counter negative", func(t *testing.T) {
		svc, st, _ := fixture(t)
		st.slots[1].BookedCount = 10
		res, err := svc.Submit(ctx, submitInput(1, 3))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if _, err := svc.Cancel(ctx, res.Booking.ID, model.ActorAdmin, ""); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if got := st.slots[1].BookedCount; got != 10 {
			t.Fatalf("booked count = %d, want 10", got)
		}
	})

	t.Run("double cancel fails", func(t *testing.T) {
		svc, _, _ := fixture(t)
		res, err := svc.Submit(ctx, submitInput(1, 1))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if _, err := svc.Cancel(ctx, res.Booking.ID, model.ActorUser, ""); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if _, err := svc.Cancel(ctx, res.Booking.ID, model.ActorUser, ""); !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("err = %v, want ErrInvalidStatus", err)
		}
	})
}

func TestMoveToWaitlist(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := fixture(t)
	res, err := svc.Submit(ctx, submitInput(1, 2))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	b, entry, err := svc.MoveToWaitlist(ctx, res.Booking.ID, "admin@show.example")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if b.Status != model.BookingStatusMovedToWaitlist || b.CapacityHeld {
		t.Fatalf("got status=%s held=%v", b.Status, b.CapacityHeld)
	}
	if got := st.slots[1].BookedCount; got != 8 {
		t.Fatalf("booked count = %d, want 8", got)
	}
	if entry.Status != model.WaitingStatusPending || entry.Guests != 2 || entry.ShowSlotID != 1 {
		t.Fatalf("entry = %+v", entry)
	}
	if entry.Email != "eva@example.com" {
		t.Fatalf("entry email = %q", entry.Email)
	}
}

func TestReschedule(t *testing.T) {
	ctx := context.Background()

	t.Run("moves held capacity between slots", func(t *testing.T) {
		svc, st, _ := fixture(t)
		st.slots[2].BookedCount = 4
		res, err := svc.Submit(ctx, submitInput(1, 2))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		b, err := svc.Reschedule(ctx, res.Booking.ID, 2, false, "admin@show.example")
		if err != nil {
			t.Fatalf("reschedule: %v", err)
		}
		if b.ShowSlotID != 2 || b.Status != model.BookingStatusConfirmed || !b.CapacityHeld {
			t.Fatalf("got slot=%d status=%s held=%v", b.ShowSlotID, b.Status, b.CapacityHeld)
		}
		if got := st.slots[1].BookedCount; got != 8 {
			t.Fatalf("old slot count = %d, want 8", got)
		}
		if got := st.slots[2].BookedCount; got != 6 {
			t.Fatalf("new slot count = %d, want 6", got)
		}
		if len(b.RescheduleHistory) != 1 || b.RescheduleHistory[0].OldShowSlotID != 1 || b.RescheduleHistory[0].NewShowSlotID != 2 {
			t.Fatalf("history = %+v", b.RescheduleHistory)
		}
	})

	t.Run("full target without override goes pending", func(t *testing.T) {
		svc, st, _ := fixture(t)
		res, err := svc.Submit(ctx, submitInput(1, 2))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		b, err := svc.Reschedule(ctx, res.Booking.ID, 2, false, "admin@show.example")
		if err != nil {
			t.Fatalf("reschedule: %v", err)
		}
		if b.Status != model.BookingStatusPendingApproval || !b.IsOverbooking || b.CapacityHeld {
			t.Fatalf("got status=%s overbooking=%v held=%v", b.Status, b.IsOverbooking, b.CapacityHeld)
		}
		if got := st.slots[1].BookedCount; got != 8 {
			t.Fatalf("old slot count = %d, want 8", got)
		}
		if got := st.slots[2].BookedCount; got != 10 {
			t.Fatalf("full slot count = %d, want 10", got)
		}
	})

	t.Run("full target with override confirms as overbooking", func(t *testing.T) {
		svc, st, _ := fixture(t)
		res, err := svc.Submit(ctx, submitInput(1, 2))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		b, err := svc.Reschedule(ctx, res.Booking.ID, 2, true, "admin@show.example")
		if err != nil {
			t.Fatalf("reschedule: %v", err)
		}
		if b.Status != model.BookingStatusConfirmed || !b.IsOverbooking || !b.CapacityHeld {
			t.Fatalf("got status=%s overbooking=%v held=%v", b.Status, b.IsOverbooking, b.CapacityHeld)
		}
		if got := st.slots[2].BookedCount; got != 12 {
			t.Fatalf("new slot count = %d, want 12", got)
		}
	})

	t.Run("same slot is rejected", func(t *testing.T) {
		svc, _, _ := fixture(t)
		res, err := svc.Submit(ctx, submitInput(1, 1))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if _, err := svc.Reschedule(ctx, res.Booking.ID, 1, false, "admin@show.example"); !errors.Is(err, ErrSameSlot) {
			t.Fatalf("err = %v, want ErrSameSlot", err)
		}
	})
}

func TestBookFromWaitlist(t *testing.T) {
	ctx := context.Background()

	addEntry := func(st *fakeStore, slotID uint64, guests int) uint64 {
		st.nextWaiting++
		st.waiting[st.nextWaiting] = &model.WaitingListEntry{
			ID: st.nextWaiting, ShowSlotID: slotID, Name: "Tom de Vries",
			Email: "tom@example.com", Guests: guests, Status: model.WaitingStatusPending,
		}
		return st.nextWaiting
	}

	t.Run("books a fitting entry and retires it", func(t *testing.T) {
		svc, st, _ := fixture(t)
		id := addEntry(st, 1, 2)
		b, err := svc.BookFromWaitlist(ctx, id, 7, false, "admin@show.example")
		if err != nil {
			t.Fatalf("book: %v", err)
		}
		if b.Status != model.BookingStatusConfirmed || !b.CapacityHeld || b.IsOverbooking {
			t.Fatalf("got status=%s held=%v overbooking=%v", b.Status, b.CapacityHeld, b.IsOverbooking)
		}
		if b.TotalPriceCents != 2*7900 {
			t.Fatalf("total = %d", b.TotalPriceCents)
		}
		if got := st.slots[1].BookedCount; got != 10 {
			t.Fatalf("booked count = %d, want 10", got)
		}
		if st.waiting[id].Status != model.WaitingStatusBooked {
			t.Fatalf("entry status = %s", st.waiting[id].Status)
		}
	})

	t.Run("full slot demands confirmation and still lands pending", func(t *testing.T) {
		svc, st, _ := fixture(t)
		id := addEntry(st, 2, 2)
		if _, err := svc.BookFromWaitlist(ctx, id, 7, false, "admin@show.example"); !errors.Is(err, ErrConfirmationRequired) {
			t.Fatalf("err = %v, want ErrConfirmationRequired", err)
		}
		b, err := svc.BookFromWaitlist(ctx, id, 7, true, "admin@show.example")
		if err != nil {
			t.Fatalf("book with confirmation: %v", err)
		}
		if b.Status != model.BookingStatusPendingApproval || !b.IsOverbooking || b.CapacityHeld {
			t.Fatalf("got status=%s overbooking=%v held=%v", b.Status, b.IsOverbooking, b.CapacityHeld)
		}
		if got := st.slots[2].BookedCount; got != 10 {
			t.Fatalf("booked count = %d, want 10", got)
		}
		if st.waiting[id].Status != model.WaitingStatusBooked {
			t.Fatalf("entry status = %s", st.waiting[id].Status)
		}

		// Approval stays a separate step and only then moves the counter.
		approved, err := svc.Approve(ctx, b.ID, "admin@show.example")
		if err != nil {
			t.Fatalf("approve: %v", err)
		}
		if !approved.CapacityHeld || approved.IsOverbooking {
			t.Fatalf("got held=%v overbooking=%v", approved.CapacityHeld, approved.IsOverbooking)
		}
		if got := st.slots[2].BookedCount; got != 12 {
			t.Fatalf("booked count = %d after approval, want 12", got)
		}
	})

	t.Run("closed slot demands confirmation and then confirms when it fits", func(t *testing.T) {
		svc, st, _ := fixture(t)
		st.slots[1].IsManuallyClosed = true
		id := addEntry(st, 1, 1)
		if _, err := svc.BookFromWaitlist(ctx, id, 7, false, "admin@show.example"); !errors.Is(err, ErrConfirmationRequired) {
			t.Fatalf("err = %v, want ErrConfirmationRequired", err)
		}
		b, err := svc.BookFromWaitlist(ctx, id, 7, true, "admin@show.example")
		if err != nil {
			t.Fatalf("book with confirmation: %v", err)
		}
		if b.Status != model.BookingStatusConfirmed || !b.CapacityHeld || b.IsOverbooking {
			t.Fatalf("got status=%s held=%v overbooking=%v", b.Status, b.CapacityHeld, b.IsOverbooking)
		}
		if got := st.slots[1].BookedCount; got != 9 {
			t.Fatalf("booked count = %d, want 9", got)
		}
	})

	t.Run("already booked entry cannot be booked twice", func(t *testing.T) {
		svc, st, _ := fixture(t)
		id := addEntry(st, 1, 1)
		if _, err := svc.BookFromWaitlist(ctx, id, 7, false, "admin@show.example"); err != nil {
			t.Fatalf("book: %v", err)
		}
		if _, err := svc.BookFromWaitlist(ctx, id, 7, false, "admin@show.example"); !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("err = %v, want ErrInvalidStatus", err)
		}
	})
}

func TestAuditTrail(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := fixture(t)
	res, err := svc.Submit(ctx, submitInput(1, 3))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Approve(ctx, res.Booking.ID, "admin@show.example"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	var actions []string
	for _, e := range st.audits {
		actions = append(actions, e.Action)
	}
	want := []string{"booking.submit", "booking.approve"}
	if fmt.Sprint(actions) != fmt.Sprint(want) {
		t.Fatalf("audit actions = %v, want %v", actions, want)
	}
}
