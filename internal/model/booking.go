package model

import "time"

// Booking lifecycle statuses.  A booking is never deleted by the booking
// flow itself; cancellation and rejection are status changes.
const (
	BookingStatusPendingApproval = "pending_approval"
	BookingStatusConfirmed       = "confirmed"
	BookingStatusRejected        = "rejected"
	BookingStatusCancelled       = "cancelled"
	BookingStatusMovedToWaitlist = "moved_to_waitlist"
)

// Actors recorded on cancellations.
const (
	ActorUser  = "user"
	ActorAdmin = "admin"
)

// MerchandiseLine is one merchandise position sold with a booking.  The
// unit price is denormalized at submission time so later price changes
// do not alter historical bookings.
type MerchandiseLine struct {
	MerchandiseID  uint64 `json:"merchandise_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// RescheduleEntry records one move of a booking between show slots.
type RescheduleEntry struct {
	OldShowSlotID uint64    `json:"old_show_slot_id"`
	NewShowSlotID uint64    `json:"new_show_slot_id"`
	RescheduledBy string    `json:"rescheduled_by"`
	Timestamp     time.Time `json:"timestamp"`
}

// Booking records one reservation attempt for a show slot.  CapacityHeld
// is the authoritative flag for whether the booking's guests are counted
// in the owning slot's booked_count; every capacity adjustment sets or
// clears it in the same transaction, so no code path has to infer the
// counter state from the status history.
type Booking struct {
	ID                 uint64            // bookings.id
	ReservationID      string            // bookings.reservation_id (human-facing, time-based)
	SubmissionKey      string            // bookings.submission_key (client idempotency key)
	ShowSlotID         uint64            // bookings.show_slot_id
	PackageID          uint64            // bookings.package_id
	PackageName        string            // bookings.package_name (denormalized)
	Guests             int               // bookings.guests
	CustomerName       string            // bookings.customer_name
	CustomerEmail      string            // bookings.customer_email
	CustomerPhone      string            // bookings.customer_phone
	CustomerAddress    string            // bookings.customer_address
	Status             string            // bookings.status
	IsOverbooking      bool              // bookings.is_overbooking
	CapacityHeld       bool              // bookings.capacity_held
	TotalPriceCents    int64             // bookings.total_price_cents
	AppliedPromoCode   string            // bookings.applied_promo_code
	DiscountCents      int64             // bookings.discount_cents
	Merchandise        []MerchandiseLine // bookings.merchandise (JSON)
	AddOnIDs           []uint64          // bookings.add_on_ids (JSON)
	InternalAdminNotes string            // bookings.internal_admin_notes
	CancellationReason string            // bookings.cancellation_reason
	CancelledBy        string            // bookings.cancelled_by (user|admin)
	CancelledAt        *time.Time        // bookings.cancelled_at (nullable)
	RescheduleHistory  []RescheduleEntry // bookings.reschedule_history (JSON)
	CreatedAt          time.Time         // bookings.created_at
	UpdatedAt          time.Time         // bookings.updated_at
}
