// Package queue defines the events exchanged over RabbitMQ between the
// booking flow and the notification consumer.
package queue

import "time"

// Event kinds published on the booking events queue.
const (
	EventBookingSubmitted = "booking.submitted"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is the message emitted after a booking transaction
// commits.  It carries everything the notification consumer needs to
// write both the customer and the back-office notification, so the
// consumer never has to read the database.
type BookingEvent struct {
	Kind            string    `json:"kind"`
	BookingID       uint64    `json:"booking_id"`
	ReservationID   string    `json:"reservation_id"`
	Status          string    `json:"status"`
	IsOverbooking   bool      `json:"is_overbooking"`
	ShowDate        string    `json:"show_date"`
	ShowTime        string    `json:"show_time"`
	Guests          int       `json:"guests"`
	PackageName     string    `json:"package_name"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	TotalPriceCents int64     `json:"total_price_cents"`
	OccurredAt      time.Time `json:"occurred_at"`
}
