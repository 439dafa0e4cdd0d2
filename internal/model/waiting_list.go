package model

import "time"

// Waiting list entry statuses.
const (
	WaitingStatusPending = "pending"
	WaitingStatusBooked  = "booked"
	WaitingStatusRemoved = "removed"
)

// WaitingListEntry is a contact wanting a slot that is full or closed,
// or a booking that was administratively moved off the confirmed list.
// Converting an entry into a booking flips its status to "booked" and
// creates a brand new Booking; the entry itself never holds capacity.
type WaitingListEntry struct {
	ID         uint64    // waiting_list.id
	ShowSlotID uint64    // waiting_list.show_slot_id
	Name       string    // waiting_list.name
	Email      string    // waiting_list.email
	Phone      string    // waiting_list.phone
	Guests     int       // waiting_list.guests
	Status     string    // waiting_list.status
	Notes      string    // waiting_list.notes (may reference an originating booking)
	CreatedAt  time.Time // waiting_list.created_at
	UpdatedAt  time.Time // waiting_list.updated_at
}
