package model

import "time"

// ShowSlot represents one bookable performance occurrence of the dinner
// show.  Each slot has a finite guest capacity and a denormalized
// booked_count that tracks how many guests currently hold capacity.
// The counter is only ever changed inside a database transaction that
// also changes the booking owning the guests (see internal/booking).
//
// Fields:
//  ID               – primary key identifier.
//  ShowDate         – calendar date of the performance ("2006-01-02").
//  ShowTime         – start time of the performance ("15:04").
//  Capacity         – maximum number of guests admitted.
//  BookedCount      – guests currently counted against capacity.
//  IsManuallyClosed – admin switch that blocks new bookings even when
//                     capacity remains.
//  PriceTier        – key into a package's price levels ("default" when
//                     empty).
//  PackageIDs       – packages bookable for this slot; empty means all
//                     active packages.
type ShowSlot struct {
	ID               uint64    // show_slots.id
	ShowDate         string    // show_slots.show_date
	ShowTime         string    // show_slots.show_time
	Capacity         int       // show_slots.capacity
	BookedCount      int       // show_slots.booked_count
	IsManuallyClosed bool      // show_slots.is_manually_closed
	PriceTier        string    // show_slots.price_tier
	PackageIDs       []uint64  // show_slots.package_ids (JSON)
	CreatedAt        time.Time // show_slots.created_at
	UpdatedAt        time.Time // show_slots.updated_at
}

// AvailableSeats returns the remaining capacity of the slot, floored at
// zero.  Approved overbookings can push BookedCount past Capacity, in
// which case the slot simply reports zero availability.
func (s ShowSlot) AvailableSeats() int {
	if left := s.Capacity - s.BookedCount; left > 0 {
		return left
	}
	return 0
}

// Tier returns the slot's price tier, falling back to "default" when no
// tier was assigned by the admin.
func (s ShowSlot) Tier() string {
	if s.PriceTier == "" {
		return "default"
	}
	return s.PriceTier
}

// AllowsPackage reports whether the given package may be booked for this
// slot.  An empty PackageIDs list places no restriction.
func (s ShowSlot) AllowsPackage(packageID uint64) bool {
	if len(s.PackageIDs) == 0 {
		return true
	}
	for _, id := range s.PackageIDs {
		if id == packageID {
			return true
		}
	}
	return false
}
