package model

import "time"

// MerchandiseItem is a sellable article (programme, wine, souvenir)
// offered alongside bookings.  The unit price is copied onto booking
// merchandise lines at submission time.
type MerchandiseItem struct {
	ID         uint64    // merchandise.id
	Name       string    // merchandise.name
	Description string   // merchandise.description
	PriceCents int64     // merchandise.price_cents
	IsActive   bool      // merchandise.is_active
	CreatedAt  time.Time // merchandise.created_at
	UpdatedAt  time.Time // merchandise.updated_at
}
