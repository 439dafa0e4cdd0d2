package pricing

import (
	"errors"
	"time"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

// Promo evaluation failures.  Handlers map these onto user-facing
// validation messages, so each rule gets its own sentinel.
var (
	ErrPromoInactive  = errors.New("pricing: promo code is inactive")
	ErrPromoExpired   = errors.New("pricing: promo code has expired")
	ErrPromoExhausted = errors.New("pricing: promo code usage limit reached")
	ErrPromoMinNotMet = errors.New("pricing: booking below promo minimum")
)

// Discount evaluates a promo code against a booking subtotal and
// returns the discount in cents.  Percentage codes take ValueCents as a
// whole-number percentage; fixed-amount and gift-card codes take it as
// cents.  The result is clamped to the subtotal so callers can subtract
// it without checking for negative totals.
func Discount(p model.PromoCode, subtotalCents int64, now time.Time) (int64, error) {
	if !p.IsActive {
		return 0, ErrPromoInactive
	}
	if p.ExpirationDate != nil && now.After(*p.ExpirationDate) {
		return 0, ErrPromoExpired
	}
	if p.UsageLimit > 0 && p.TimesUsed >= p.UsageLimit {
		return 0, ErrPromoExhausted
	}
	if p.MinBookingCents > 0 && subtotalCents < p.MinBookingCents {
		return 0, ErrPromoMinNotMet
	}

	var discount int64
	switch p.Type {
	case model.PromoTypePercentage:
		discount = subtotalCents * p.ValueCents / 100
	case model.PromoTypeFixedAmount, model.PromoTypeGiftCard:
		discount = p.ValueCents
	default:
		return 0, ErrPromoInactive
	}
	if discount > subtotalCents {
		discount = subtotalCents
	}
	if discount < 0 {
		discount = 0
	}
	return discount, nil
}
