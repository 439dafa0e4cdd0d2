package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/avelor/dinner-show-reservation/internal/model"
)

func TestPerGuestCents(t *testing.T) {
	tiered := model.PackageOption{
		ID: 1,
		PriceLevels: map[string]model.PriceLevel{
			"default": {PricePerPersonCents: 6900},
			"premium": {PricePerPersonCents: 8900},
		},
	}

	t.Run("flat price wins over levels", func(t *testing.T) {
		pkg := tiered
		pkg.PriceCents = 7500
		got, err := PerGuestCents(pkg, "premium")
		if err != nil {
			t.Fatalf("PerGuestCents: %v", err)
		}
		if got != 7500 {
			t.Fatalf("got %d, want 7500", got)
		}
	})

	t.Run("matching tier", func(t *testing.T) {
		got, err := PerGuestCents(tiered, "premium")
		if err != nil {
			t.Fatalf("PerGuestCents: %v", err)
		}
		if got != 8900 {
			t.Fatalf("got %d, want 8900", got)
		}
	})

	t.Run("unknown tier falls back to default", func(t *testing.T) {
		got, err := PerGuestCents(tiered, "matinee")
		if err != nil {
			t.Fatalf("PerGuestCents: %v", err)
		}
		if got != 6900 {
			t.Fatalf("got %d, want 6900", got)
		}
	})

	t.Run("no price at all", func(t *testing.T) {
		if _, err := PerGuestCents(model.PackageOption{ID: 2}, "default"); !errors.Is(err, ErrNoPriceForTier) {
			t.Fatalf("err = %v, want ErrNoPriceForTier", err)
		}
	})
}

func TestCalculate(t *testing.T) {
	pkg := model.PackageOption{ID: 1, PriceCents: 7900}
	addOns := []model.AddOn{{ID: 1, PriceCents: 900}, {ID: 2, PriceCents: 400}}
	merch := []model.MerchandiseLine{{Quantity: 3, UnitPriceCents: 1200}}

	q, err := Calculate(pkg, "default", 4, addOns, merch)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if q.PackageCents != 4*7900 {
		t.Fatalf("package = %d", q.PackageCents)
	}
	if q.AddOnCents != 4*(900+400) {
		t.Fatalf("add-ons = %d", q.AddOnCents)
	}
	if q.MerchandiseCents != 3*1200 {
		t.Fatalf("merchandise = %d", q.MerchandiseCents)
	}
	want := int64(4*7900 + 4*1300 + 3600)
	if q.SubtotalCents != want || q.TotalCents != want {
		t.Fatalf("subtotal=%d total=%d, want %d", q.SubtotalCents, q.TotalCents, want)
	}

	t.Run("total never shrinks when guests grow", func(t *testing.T) {
		var prev int64
		for guests := 1; guests <= 8; guests++ {
			q, err := Calculate(pkg, "default", guests, addOns, merch)
			if err != nil {
				t.Fatalf("Calculate(%d guests): %v", guests, err)
			}
			if q.TotalCents < prev {
				t.Fatalf("total dropped from %d to %d at %d guests", prev, q.TotalCents, guests)
			}
			prev = q.TotalCents
		}
	})
}

func TestWithDiscount(t *testing.T) {
	q := Quote{SubtotalCents: 5000, TotalCents: 5000}

	t.Run("normal discount", func(t *testing.T) {
		got := q.WithDiscount(1500)
		if got.DiscountCents != 1500 || got.TotalCents != 3500 {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("discount above subtotal is clamped", func(t *testing.T) {
		got := q.WithDiscount(9000)
		if got.DiscountCents != 5000 || got.TotalCents != 0 {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("negative discount is ignored", func(t *testing.T) {
		got := q.WithDiscount(-10)
		if got.DiscountCents != 0 || got.TotalCents != 5000 {
			t.Fatalf("got %+v", got)
		}
	})
}

func TestDiscount(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	base := model.PromoCode{Code: "SHOW10", Type: model.PromoTypePercentage, ValueCents: 10, IsActive: true}

	t.Run("percentage", func(t *testing.T) {
		got, err := Discount(base, 15800, now)
		if err != nil {
			t.Fatalf("Discount: %v", err)
		}
		if got != 1580 {
			t.Fatalf("got %d, want 1580", got)
		}
	})

	t.Run("fixed amount clamped to subtotal", func(t *testing.T) {
		p := base
		p.Type = model.PromoTypeFixedAmount
		p.ValueCents = 20000
		got, err := Discount(p, 15800, now)
		if err != nil {
			t.Fatalf("Discount: %v", err)
		}
		if got != 15800 {
			t.Fatalf("got %d, want 15800", got)
		}
	})

	t.Run("inactive", func(t *testing.T) {
		p := base
		p.IsActive = false
		if _, err := Discount(p, 1000, now); !errors.Is(err, ErrPromoInactive) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		p := base
		p.ExpirationDate = &past
		if _, err := Discount(p, 1000, now); !errors.Is(err, ErrPromoExpired) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("usage limit reached", func(t *testing.T) {
		p := base
		p.UsageLimit = 5
		p.TimesUsed = 5
		if _, err := Discount(p, 1000, now); !errors.Is(err, ErrPromoExhausted) {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("below minimum", func(t *testing.T) {
		p := base
		p.MinBookingCents = 5000
		if _, err := Discount(p, 4999, now); !errors.Is(err, ErrPromoMinNotMet) {
			t.Fatalf("err = %v", err)
		}
	})
}
