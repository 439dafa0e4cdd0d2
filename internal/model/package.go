package model

import "time"

// AddOn is an optional extra offered with a package, priced per guest.
type AddOn struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// PriceLevel carries the per-person price of a package for one tier.
type PriceLevel struct {
	PricePerPersonCents int64 `json:"price_per_person_cents"`
}

// PackageOption is a priced dinner/show arrangement guests select when
// booking.  Pricing prefers the flat PriceCents; when it is zero the
// per-tier PriceLevels map is consulted using the show slot's tier.
type PackageOption struct {
	ID          uint64                // packages.id
	Name        string                // packages.name
	Description string                // packages.description
	PriceCents  int64                 // packages.price_cents (0 = use PriceLevels)
	PriceLevels map[string]PriceLevel // packages.price_levels (JSON)
	AddOns      []AddOn               // packages.add_ons (JSON)
	IsActive    bool                  // packages.is_active
	CreatedAt   time.Time             // packages.created_at
	UpdatedAt   time.Time             // packages.updated_at
}

// AddOnByID looks up one of the package's add-ons.  The second return
// value is false when the id does not belong to this package.
func (p PackageOption) AddOnByID(id uint64) (AddOn, bool) {
	for _, a := range p.AddOns {
		if a.ID == id {
			return a, true
		}
	}
	return AddOn{}, false
}
