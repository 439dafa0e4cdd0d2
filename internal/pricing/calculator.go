// Package pricing computes booking totals.  All amounts are integer
// cents; nothing here touches the database, which keeps the rules easy
// to test and lets the booking orchestrator call them inside or outside
// a transaction as it pleases.
package pricing

import (
	"errors"
	"fmt"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// ErrNoPriceForTier is returned when a package has neither a flat price
// nor a price level matching the show slot's tier.
var ErrNoPriceForTier = errors.New("pricing: no price defined for tier")

// Quote is the fully broken-down price of one booking.
type Quote struct {
	PerGuestCents    int64 // package price for a single guest
	PackageCents     int64 // PerGuestCents * guests
	AddOnCents       int64 // all selected add-ons, priced per guest
	MerchandiseCents int64 // all merchandise lines
	SubtotalCents    int64 // package + add-ons + merchandise
	DiscountCents    int64 // promo discount, clamped to the subtotal
	TotalCents       int64 // subtotal - discount, never negative
}

// PerGuestCents resolves the per-person package price for a tier.  A
// non-zero flat price wins; otherwise the package's price levels are
// consulted for the tier and then for "default".
func PerGuestCents(pkg model.PackageOption, tier string) (int64, error) {
	if pkg.PriceCents > 0 {
		return pkg.PriceCents, nil
	}
	if lvl, ok := pkg.PriceLevels[tier]; ok {
		return lvl.PricePerPersonCents, nil
	}
	if lvl, ok := pkg.PriceLevels["default"]; ok {
		return lvl.PricePerPersonCents, nil
	}
	return 0, fmt.Errorf("%w: package %d, tier %q", ErrNoPriceForTier, pkg.ID, tier)
}

// Calculate builds the undiscounted quote for a booking.  Add-ons are
// charged once per guest; merchandise lines carry their own quantity.
func Calculate(pkg model.PackageOption, tier string, guests int, addOns []model.AddOn, merch []model.MerchandiseLine) (Quote, error) {
	perGuest, err := PerGuestCents(pkg, tier)
	if err != nil {
		return Quote{}, err
	}
	q := Quote{
		PerGuestCents: perGuest,
		PackageCents:  perGuest * int64(guests),
	}
	for _, a := range addOns {
		q.AddOnCents += a.PriceCents * int64(guests)
	}
	for _, m := range merch {
		q.MerchandiseCents += m.UnitPriceCents * int64(m.Quantity)
	}
	q.SubtotalCents = q.PackageCents + q.AddOnCents + q.MerchandiseCents
	q.TotalCents = q.SubtotalCents
	return q, nil
}

// WithDiscount returns a copy of the quote with the discount applied.
// The discount is clamped so the total never drops below zero.
func (q Quote) WithDiscount(discountCents int64) Quote {
	if discountCents < 0 {
		discountCents = 0
	}
	if discountCents > q.SubtotalCents {
		discountCents = q.SubtotalCents
	}
	q.DiscountCents = discountCents
	q.TotalCents = q.SubtotalCents - discountCents
	return q
}
