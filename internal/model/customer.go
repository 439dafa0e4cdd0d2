package model

import "time"

// Customer is the contact record behind bookings.  Customers are
// upserted by email whenever a booking is submitted, so repeat guests
// keep a single row with their latest contact details.
type Customer struct {
	ID        uint64    // customers.id
	Name      string    // customers.name
	Email     string    // customers.email (unique, lower-cased)
	Phone     string    // customers.phone
	Address   string    // customers.address
	CreatedAt time.Time // customers.created_at
	UpdatedAt time.Time // customers.updated_at
}
