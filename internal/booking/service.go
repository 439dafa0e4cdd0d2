// Package booking implements the reservation lifecycle: submission,
// approval, rejection, cancellation, waitlist moves, reschedules and
// waitlist conversion.  Every operation that touches a show slot's
// booked_count runs inside a single database transaction that locks the
// slot row first, so the counter can never drift from the bookings that
// own it.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avelor/dinner-show-reservation/internal/model"
	"github.com/avelor/dinner-show-reservation/internal/pricing"
	"github.com/avelor/dinner-show-reservation/internal/queue"
	"github.com/avelor/dinner-show-reservation/internal/repository"
	"github.com/avelor/dinner-show-reservation/internal/utils"
)

// Store is the persistence surface the orchestrator works against.  All
// methods are transaction-aware through the context: inside a WithTx
// block they join the ambient transaction.  *repository.Store satisfies
// this interface; tests use an in-memory fake.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	ShowSlotForUpdate(ctx context.Context, id uint64) (model.ShowSlot, error)
	AdjustBookedCount(ctx context.Context, slotID uint64, delta int) error

	PackageByID(ctx context.Context, id uint64) (model.PackageOption, error)
	MerchandiseByIDs(ctx context.Context, ids []uint64) (map[uint64]model.MerchandiseItem, error)

	PromoByCodeForUpdate(ctx context.Context, code string) (model.PromoCode, error)
	IncrementPromoUsage(ctx context.Context, id uint64) error

	BookingForUpdate(ctx context.Context, id uint64) (model.Booking, error)
	BookingBySubmissionKey(ctx context.Context, key string) (*model.Booking, error)
	CreateBooking(ctx context.Context, b *model.Booking) error
	UpdateBooking(ctx context.Context, b *model.Booking) error

	UpsertCustomer(ctx context.Context, c *model.Customer) error

	WaitingEntryForUpdate(ctx context.Context, id uint64) (model.WaitingListEntry, error)
	CreateWaitingEntry(ctx context.Context, e *model.WaitingListEntry) error
	SetWaitingEntryStatus(ctx context.Context, id uint64, status string) error

	AppendAudit(ctx context.Context, e model.AuditLogEntry) error
}

// Publisher delivers booking events to the notification pipeline once
// the owning transaction has committed.
type Publisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// Operation failures the HTTP layer maps onto status codes.
var (
	ErrShowSlotClosed       = errors.New("show slot is closed for bookings")
	ErrInvalidGuests        = errors.New("guest count must be at least 1")
	ErrPackageNotAllowed    = errors.New("package not available for this show slot")
	ErrUnknownAddOn         = errors.New("add-on does not belong to the selected package")
	ErrUnknownMerchandise   = errors.New("merchandise item not found or inactive")
	ErrInvalidStatus        = errors.New("operation not allowed in current booking status")
	ErrSameSlot             = errors.New("booking is already on that show slot")
	ErrIdempotencyConflict  = errors.New("submission key already used with a different payload")
	ErrConfirmationRequired = errors.New("explicit confirmation required")
)

// Service is the booking orchestrator.
type Service struct {
	store Store
	pub   Publisher
	now   func() time.Time
}

// NewService builds a Service.  pub may be nil, in which case events
// are dropped (used by tests and by deployments without a broker).
func NewService(store Store, pub Publisher) *Service {
	return &Service{store: store, pub: pub, now: time.Now}
}

// MerchandiseSelection is one merchandise position in a submission.
type MerchandiseSelection struct {
	MerchandiseID uint64
	Quantity      int
}

// CustomerDetails carries the contact fields of a submission.
type CustomerDetails struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// SubmitInput is everything a guest sends when reserving.
type SubmitInput struct {
	SubmissionKey string // client idempotency key; generated when empty
	ShowSlotID    uint64
	PackageID     uint64
	Guests        int // defaults to 1 when zero
	AddOnIDs      []uint64
	Merchandise   []MerchandiseSelection
	PromoCode     string
	Customer      CustomerDetails
}

// SubmitResult reports the stored booking and whether the submission
// key had been seen before.
type SubmitResult struct {
	Booking        model.Booking
	AlreadyExisted bool
}

// Submit processes a public reservation.  Within one transaction it
// locks the slot, prices the booking, applies and consumes the promo
// code, and either confirms the booking (incrementing booked_count) or
// parks it as a pending overbooking that holds no capacity.  Replaying
// the same submission key returns the original booking untouched.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	if in.Guests == 0 {
		in.Guests = 1
	}
	if in.Guests < 1 {
		return SubmitResult{}, ErrInvalidGuests
	}
	if in.SubmissionKey == "" {
		in.SubmissionKey = uuid.NewString()
	}

	var (
		res    SubmitResult
		events []queue.BookingEvent
	)
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		if prev, err := s.store.BookingBySubmissionKey(ctx, in.SubmissionKey); err != nil {
			return err
		} else if prev != nil {
			if prev.ShowSlotID != in.ShowSlotID || prev.Guests != in.Guests {
				return ErrIdempotencyConflict
			}
			res = SubmitResult{Booking: *prev, AlreadyExisted: true}
			return nil
		}

		slot, err := s.store.ShowSlotForUpdate(ctx, in.ShowSlotID)
		if err != nil {
			return err
		}
		if slot.IsManuallyClosed {
			return ErrShowSlotClosed
		}

		pkg, err := s.store.PackageByID(ctx, in.PackageID)
		if err != nil {
			return err
		}
		if !pkg.IsActive || !slot.AllowsPackage(pkg.ID) {
			return ErrPackageNotAllowed
		}

		addOns := make([]model.AddOn, 0, len(in.AddOnIDs))
		for _, id := range in.AddOnIDs {
			a, ok := pkg.AddOnByID(id)
			if !ok {
				return fmt.Errorf("%w: id %d", ErrUnknownAddOn, id)
			}
			addOns = append(addOns, a)
		}

		lines, err := s.resolveMerchandise(ctx, in.Merchandise)
		if err != nil {
			return err
		}

		quote, err := pricing.Calculate(pkg, slot.Tier(), in.Guests, addOns, lines)
		if err != nil {
			return err
		}

		appliedCode := ""
		if code := strings.ToUpper(strings.TrimSpace(in.PromoCode)); code != "" {
			promo, err := s.store.PromoByCodeForUpdate(ctx, code)
			if err != nil {
				return err
			}
			discount, err := pricing.Discount(promo, quote.SubtotalCents, s.now())
			if err != nil {
				return err
			}
			if discount > 0 {
				if err := s.store.IncrementPromoUsage(ctx, promo.ID); err != nil {
					return err
				}
			}
			quote = quote.WithDiscount(discount)
			appliedCode = promo.Code
		}

		overbooking := slot.BookedCount+in.Guests > slot.Capacity
		now := s.now()
		b := model.Booking{
			ReservationID:    utils.NewReservationID(now),
			SubmissionKey:    in.SubmissionKey,
			ShowSlotID:       slot.ID,
			PackageID:        pkg.ID,
			PackageName:      pkg.Name,
			Guests:           in.Guests,
			CustomerName:     in.Customer.Name,
			CustomerEmail:    strings.ToLower(strings.TrimSpace(in.Customer.Email)),
			CustomerPhone:    in.Customer.Phone,
			CustomerAddress:  in.Customer.Address,
			Status:           model.BookingStatusConfirmed,
			IsOverbooking:    overbooking,
			CapacityHeld:     !overbooking,
			TotalPriceCents:  quote.TotalCents,
			AppliedPromoCode: appliedCode,
			DiscountCents:    quote.DiscountCents,
			Merchandise:      lines,
			AddOnIDs:         in.AddOnIDs,
		}
		if overbooking {
			b.Status = model.BookingStatusPendingApproval
		}

		if err := s.store.UpsertCustomer(ctx, &model.Customer{
			Name:    in.Customer.Name,
			Email:   b.CustomerEmail,
			Phone:   in.Customer.Phone,
			Address: in.Customer.Address,
		}); err != nil {
			return err
		}

		if err := s.store.CreateBooking(ctx, &b); err != nil {
			return err
		}
		if b.CapacityHeld {
			if err := s.store.AdjustBookedCount(ctx, slot.ID, b.Guests); err != nil {
				return err
			}
		}

		if err := s.audit(ctx, "public", "booking.submit", b.ID, map[string]any{
			"reservation_id": b.ReservationID,
			"show_slot_id":   slot.ID,
			"guests":         b.Guests,
			"overbooking":    overbooking,
		}); err != nil {
			return err
		}

		res = SubmitResult{Booking: b}
		events = append(events, s.event(queue.EventBookingSubmitted, b, slot))
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSubmission) {
			// Two concurrent submits with the same key both passed the
			// replay check; the unique index rejected the loser after
			// the winner committed.  Read the winner back.
			return s.replaySubmission(ctx, in)
		}
		return SubmitResult{}, err
	}
	s.publish(ctx, events)
	return res, nil
}

// replaySubmission resolves a lost insert race on the submission key by
// returning the booking the competing transaction created, applying the
// same payload-mismatch check as the in-transaction replay path.
func (s *Service) replaySubmission(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	prev, err := s.store.BookingBySubmissionKey(ctx, in.SubmissionKey)
	if err != nil {
		return SubmitResult{}, err
	}
	if prev == nil {
		return SubmitResult{}, repository.ErrDuplicateSubmission
	}
	if prev.ShowSlotID != in.ShowSlotID || prev.Guests != in.Guests {
		return SubmitResult{}, ErrIdempotencyConflict
	}
	return SubmitResult{Booking: *prev, AlreadyExisted: true}, nil
}

// Approve confirms a pending overbooking and clears its overbooking
// flag.  The slot counter is incremented unconditionally, which can
// legitimately push booked_count past capacity; the booking now holds
// that capacity.
func (s *Service) Approve(ctx context.Context, bookingID uint64, actor string) (model.Booking, error) {
	var (
		out    model.Booking
		events []queue.BookingEvent
	)
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		b, err := s.store.BookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != model.BookingStatusPendingApproval {
			return fmt.Errorf("%w: %s", ErrInvalidStatus, b.Status)
		}
		slot, err := s.store.ShowSlotForUpdate(ctx, b.ShowSlotID)
		if err != nil {
			return err
		}

		b.Status = model.BookingStatusConfirmed
		b.IsOverbooking = false
		b.CapacityHeld = true
		s.appendNote(&b, actor, "approved overbooking")
		if err := s.store.UpdateBooking(ctx, &b); err != nil {
			return err
		}
		if err := s.store.AdjustBookedCount(ctx, slot.ID, b.Guests); err != nil {
			return err
		}
		if err := s.audit(ctx, actor, "booking.approve", b.ID, map[string]any{
			"reservation_id": b.ReservationID,
			"guests":         b.Guests,
		}); err != nil {
			return err
		}
		out = b
		events = append(events, s.event(queue.EventBookingConfirmed, b, slot))
		return nil
	})
	if err != nil {
		return model.Booking{}, err
	}
	s.publish(ctx, events)
	return out, nil
}

// Reject declines a pending overbooking.  Pending bookings never hold
// capacity, so the slot counter is untouched.
func (s *Service) Reject(ctx context.Context, bookingID uint64, actor, reason string) (model.Booking, error) {
	var out model.Booking
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		b, err := s.store.BookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != model.BookingStatusPendingApproval {
			return fmt.Errorf("%w: %s", ErrInvalidStatus, b.Status)
		}
		b.Status = model.BookingStatusRejected
		note := "rejected overbooking"
		if reason != "" {
			note += ": " + reason
		}
		s.appendNote(&b, actor, note)
		if err := s.store.UpdateBooking(ctx, &b); err != nil {
			return err
		}
		if err := s.audit(ctx, actor, "booking.reject", b.ID, map[string]any{
			"reservation_id": b.ReservationID,
			"reason":         reason,
		}); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return model.Booking{}, err
	}
	return out, nil
}

// Cancel cancels a booking on behalf of the guest or an admin.  The
// slot counter is released exactly when the booking holds capacity;
// cancelling a pending or already-released booking leaves it alone.
func (s *Service) Cancel(ctx context.Context, bookingID uint64, cancelledBy, reason string) (model.Booking, error) {
	if cancelledBy != model.ActorUser && cancelledBy != model.ActorAdmin {
		cancelledBy = model.ActorAdmin
	}
	var (
		out    model.Booking
		events []queue.BookingEvent
	)
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		b, err := s.store.BookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status == model.BookingStatusCancelled || b.Status == model.BookingStatusRejected {
			return fmt.Errorf("%w: %s", ErrInvalidStatus, b.Status)
		}
		slot, err := s.store.ShowSlotForUpdate(ctx, b.ShowSlotID)
		if err != nil {
			return err
		}
		if b.CapacityHeld {
			if err := s.store.AdjustBookedCount(ctx, slot.ID, -b.Guests); err != nil {
				return err
			}
			b.CapacityHeld = false
		}
		now := s.now()
		b.Status = model.BookingStatusCancelled
		b.CancellationReason = reason
		b.CancelledBy = cancelledBy
		b.CancelledAt = &now
		if err := s.store.UpdateBooking(ctx, &b); err != nil {
			return err
		}
		if err := s.audit(ctx, cancelledBy, "booking.cancel", b.ID, map[string]any{
			"reservation_id": b.ReservationID,
			"reason":         reason,
		}); err != nil {
			return err
		}
		out = b
		events = append(events, s.event(queue.EventBookingCancelled, b, slot))
		return nil
	})
	if err != nil {
		return model.Booking{}, err
	}
	s.publish(ctx, events)
	return out, nil
}

// MoveToWaitlist takes a live booking off the books and parks its
// contact on the slot's waiting list.  Capacity is released only when
// the booking actually held it.
func (s *Service) MoveToWaitlist(ctx context.Context, bookingID uint64, actor string) (model.Booking, model.WaitingListEntry, error) {
	var (
		outB model.Booking
		outE model.WaitingListEntry
	)
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		b, err := s.store.BookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != model.BookingStatusConfirmed && b.Status != model.BookingStatusPendingApproval {
			return fmt.Errorf("%w: %s", ErrInvalidStatus, b.Status)
		}
		slot, err := s.store.ShowSlotForUpdate(ctx, b.ShowSlotID)
		if err != nil {
			return err
		}
		if b.CapacityHeld {
			if err := s.store.AdjustBookedCount(ctx, slot.ID, -b.Guests); err != nil {
				return err
			}
			b.CapacityHeld = false
		}

		entry := model.WaitingListEntry{
			ShowSlotID: b.ShowSlotID,
			Name:       b.CustomerName,
			Email:      b.CustomerEmail,
			Phone:      b.CustomerPhone,
			Guests:     b.Guests,
			Status:     model.WaitingStatusPending,
			Notes:      fmt.Sprintf("moved from booking %s (was %s)", b.ReservationID, b.Status),
		}
		if err := s.store.CreateWaitingEntry(ctx, &entry); err != nil {
			return err
		}

		b.Status = model.BookingStatusMovedToWaitlist
		s.appendNote(&b, actor, fmt.Sprintf("moved to waiting list (entry %d)", entry.ID))
		if err := s.store.UpdateBooking(ctx, &b); err != nil {
			return err
		}
		if err := s.audit(ctx, actor, "booking.move_to_waitlist", b.ID, map[string]any{
			"reservation_id":   b.ReservationID,
			"waiting_entry_id": entry.ID,
		}); err != nil {
			return err
		}
		outB, outE = b, entry
		return nil
	})
	if err != nil {
		return model.Booking{}, model.WaitingListEntry{}, err
	}
	return outB, outE, nil
}

// Reschedule moves a booking to another show slot in one transaction.
// Both slot rows are locked in id order to keep concurrent reschedules
// deadlock-free.  When the target slot lacks room and overbooking was
// not allowed, the booking lands there as pending_approval without
// holding capacity.
func (s *Service) Reschedule(ctx context.Context, bookingID, newSlotID uint64, allowOverbooking bool, actor string) (model.Booking, error) {
	var (
		out    model.Booking
		events []queue.BookingEvent
	)
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		b, err := s.store.BookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Status != model.BookingStatusConfirmed && b.Status != model.BookingStatusPendingApproval {
			return fmt.Errorf("%w: %s", ErrInvalidStatus, b.Status)
		}
		if b.ShowSlotID == newSlotID {
			return ErrSameSlot
		}

		oldID, newID := b.ShowSlotID, newSlotID
		firstID, secondID := oldID, newID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}
		first, err := s.store.ShowSlotForUpdate(ctx, firstID)
		if err != nil {
			return err
		}
		second, err := s.store.ShowSlotForUpdate(ctx, secondID)
		if err != nil {
			return err
		}
		newSlot := first
		if second.ID == newID {
			newSlot = second
		}

		if b.CapacityHeld {
			if err := s.store.AdjustBookedCount(ctx, oldID, -b.Guests); err != nil {
				return err
			}
			b.CapacityHeld = false
		}

		fits := newSlot.BookedCount+b.Guests <= newSlot.Capacity
		if fits || allowOverbooking {
			if err := s.store.AdjustBookedCount(ctx, newID, b.Guests); err != nil {
				return err
			}
			b.Status = model.BookingStatusConfirmed
			b.IsOverbooking = !fits
			b.CapacityHeld = true
		} else {
			b.Status = model.BookingStatusPendingApproval
			b.IsOverbooking = true
		}

		b.ShowSlotID = newID
		b.RescheduleHistory = append(b.RescheduleHistory, model.RescheduleEntry{
			OldShowSlotID: oldID,
			NewShowSlotID: newID,
			RescheduledBy: actor,
			Timestamp:     s.now(),
		})
		s.appendNote(&b, actor, fmt.Sprintf("rescheduled from slot %d to %d", oldID, newID))
		if err := s.store.UpdateBooking(ctx, &b); err != nil {
			return err
		}
		if err := s.audit(ctx, actor, "booking.reschedule", b.ID, map[string]any{
			"reservation_id": b.ReservationID,
			"old_slot_id":    oldID,
			"new_slot_id":    newID,
			"status":         b.Status,
		}); err != nil {
			return err
		}
		out = b
		if b.Status == model.BookingStatusConfirmed {
			events = append(events, s.event(queue.EventBookingConfirmed, b, newSlot))
		}
		return nil
	})
	if err != nil {
		return model.Booking{}, err
	}
	s.publish(ctx, events)
	return out, nil
}

// BookFromWaitlist converts a pending waiting list entry into a real
// booking.  When the slot is full or closed the caller must pass
// confirmOverride, which only lets the call proceed: an overbooking
// attempt still lands as pending_approval without holding capacity and
// goes through the normal approval step.
func (s *Service) BookFromWaitlist(ctx context.Context, entryID, packageID uint64, confirmOverride bool, actor string) (model.Booking, error) {
	var (
		out    model.Booking
		events []queue.BookingEvent
	)
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		entry, err := s.store.WaitingEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.Status != model.WaitingStatusPending {
			return fmt.Errorf("%w: %s", ErrInvalidStatus, entry.Status)
		}
		slot, err := s.store.ShowSlotForUpdate(ctx, entry.ShowSlotID)
		if err != nil {
			return err
		}
		pkg, err := s.store.PackageByID(ctx, packageID)
		if err != nil {
			return err
		}
		if !pkg.IsActive || !slot.AllowsPackage(pkg.ID) {
			return ErrPackageNotAllowed
		}

		overbooking := slot.BookedCount+entry.Guests > slot.Capacity
		if (overbooking || slot.IsManuallyClosed) && !confirmOverride {
			return ErrConfirmationRequired
		}

		quote, err := pricing.Calculate(pkg, slot.Tier(), entry.Guests, nil, nil)
		if err != nil {
			return err
		}

		now := s.now()
		b := model.Booking{
			ReservationID:   utils.NewReservationID(now),
			SubmissionKey:   uuid.NewString(),
			ShowSlotID:      slot.ID,
			PackageID:       pkg.ID,
			PackageName:     pkg.Name,
			Guests:          entry.Guests,
			CustomerName:    entry.Name,
			CustomerEmail:   strings.ToLower(strings.TrimSpace(entry.Email)),
			CustomerPhone:   entry.Phone,
			Status:          model.BookingStatusConfirmed,
			IsOverbooking:   overbooking,
			CapacityHeld:    !overbooking,
			TotalPriceCents: quote.TotalCents,
		}
		if overbooking {
			b.Status = model.BookingStatusPendingApproval
		}
		s.appendNote(&b, actor, fmt.Sprintf("booked from waiting list entry %d", entry.ID))

		if err := s.store.UpsertCustomer(ctx, &model.Customer{
			Name:  entry.Name,
			Email: b.CustomerEmail,
			Phone: entry.Phone,
		}); err != nil {
			return err
		}
		if err := s.store.CreateBooking(ctx, &b); err != nil {
			return err
		}
		if b.CapacityHeld {
			if err := s.store.AdjustBookedCount(ctx, slot.ID, b.Guests); err != nil {
				return err
			}
		}
		if err := s.store.SetWaitingEntryStatus(ctx, entry.ID, model.WaitingStatusBooked); err != nil {
			return err
		}
		if err := s.audit(ctx, actor, "waitlist.book", entry.ID, map[string]any{
			"reservation_id": b.ReservationID,
			"show_slot_id":   slot.ID,
			"guests":         b.Guests,
			"overbooking":    overbooking,
		}); err != nil {
			return err
		}
		out = b
		kind := queue.EventBookingConfirmed
		if b.Status == model.BookingStatusPendingApproval {
			kind = queue.EventBookingSubmitted
		}
		events = append(events, s.event(kind, b, slot))
		return nil
	})
	if err != nil {
		return model.Booking{}, err
	}
	s.publish(ctx, events)
	return out, nil
}

func (s *Service) resolveMerchandise(ctx context.Context, sel []MerchandiseSelection) ([]model.MerchandiseLine, error) {
	if len(sel) == 0 {
		return nil, nil
	}
	ids := make([]uint64, 0, len(sel))
	for _, m := range sel {
		ids = append(ids, m.MerchandiseID)
	}
	items, err := s.store.MerchandiseByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	lines := make([]model.MerchandiseLine, 0, len(sel))
	for _, m := range sel {
		if m.Quantity < 1 {
			continue
		}
		item, ok := items[m.MerchandiseID]
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownMerchandise, m.MerchandiseID)
		}
		lines = append(lines, model.MerchandiseLine{
			MerchandiseID:  item.ID,
			Name:           item.Name,
			Quantity:       m.Quantity,
			UnitPriceCents: item.PriceCents,
		})
	}
	return lines, nil
}

// appendNote adds a timestamped line to the booking's internal notes.
func (s *Service) appendNote(b *model.Booking, actor, note string) {
	line := fmt.Sprintf("[%s] %s: %s", s.now().Format("2006-01-02 15:04"), actor, note)
	if b.InternalAdminNotes == "" {
		b.InternalAdminNotes = line
		return
	}
	b.InternalAdminNotes += "\n" + line
}

func (s *Service) audit(ctx context.Context, actor, action string, entityID uint64, details map[string]any) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}
	entityType := "booking"
	if strings.HasPrefix(action, "waitlist.") {
		entityType = "waiting_list"
	}
	return s.store.AppendAudit(ctx, model.AuditLogEntry{
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    string(raw),
	})
}

func (s *Service) event(kind string, b model.Booking, slot model.ShowSlot) queue.BookingEvent {
	return queue.BookingEvent{
		Kind:            kind,
		BookingID:       b.ID,
		ReservationID:   b.ReservationID,
		Status:          b.Status,
		IsOverbooking:   b.IsOverbooking,
		ShowDate:        slot.ShowDate,
		ShowTime:        slot.ShowTime,
		Guests:          b.Guests,
		PackageName:     b.PackageName,
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		TotalPriceCents: b.TotalPriceCents,
		OccurredAt:      s.now(),
	}
}

// publish sends events after the transaction committed.  Delivery is
// best effort: the booking is already durable, so a broker outage only
// costs the notification, never the reservation.
func (s *Service) publish(ctx context.Context, events []queue.BookingEvent) {
	if s.pub == nil {
		return
	}
	for _, ev := range events {
		if err := s.pub.Publish(ctx, ev); err != nil {
			log.Printf("⚠️  failed to publish %s for booking %d: %v", ev.Kind, ev.BookingID, err)
		}
	}
}
