package model

import "time"

// Promo code discount types.
const (
	PromoTypePercentage  = "percentage"
	PromoTypeFixedAmount = "fixed_amount"
	PromoTypeGiftCard    = "gift_card"
)

// PromoCode is a discount or gift-card code applied against a booking
// subtotal under eligibility rules.  TimesUsed is incremented inside the
// booking submission transaction whenever the code contributes a
// discount, so the usage-limit check always sees current data.
type PromoCode struct {
	ID                 uint64     // promo_codes.id
	Code               string     // promo_codes.code (upper-cased, unique)
	Type               string     // promo_codes.type
	ValueCents         int64      // promo_codes.value_cents (percent value for percentage type)
	UsageLimit         int        // promo_codes.usage_limit (0 = unlimited)
	TimesUsed          int        // promo_codes.times_used
	MinBookingCents    int64      // promo_codes.min_booking_cents
	ExpirationDate     *time.Time // promo_codes.expiration_date (nullable)
	IsActive           bool       // promo_codes.is_active
	CreatedAt          time.Time  // promo_codes.created_at
	UpdatedAt          time.Time  // promo_codes.updated_at
}
