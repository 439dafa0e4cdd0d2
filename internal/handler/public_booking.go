package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelor/dinner-show-reservation/internal/booking"
	"github.com/avelor/dinner-show-reservation/internal/model"
	"github.com/avelor/dinner-show-reservation/internal/pricing"
	"github.com/avelor/dinner-show-reservation/internal/repository"
)

// PublicBookingHandler exposes the reservation submission endpoint.
type PublicBookingHandler struct {
	Bookings *booking.Service
}

func NewPublicBookingHandler(svc *booking.Service) *PublicBookingHandler {
	return &PublicBookingHandler{Bookings: svc}
}

type merchandiseSelReq struct {
	MerchandiseID uint64 `json:"merchandise_id"`
	Quantity      int    `json:"quantity"`
}

type submitBookingReq struct {
	SubmissionKey string              `json:"submission_key"`
	ShowSlotID    uint64              `json:"show_slot_id"`
	PackageID     uint64              `json:"package_id"`
	Guests        int                 `json:"guests"`
	AddOnIDs      []uint64            `json:"add_on_ids"`
	Merchandise   []merchandiseSelReq `json:"merchandise"`
	PromoCode     string              `json:"promo_code"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
}

type bookingResp struct {
	ID                uint64                  `json:"id"`
	ReservationID     string                  `json:"reservation_id"`
	Status            string                  `json:"status"`
	IsOverbooking     bool                    `json:"is_overbooking"`
	ShowSlotID        uint64                  `json:"show_slot_id"`
	PackageName       string                  `json:"package_name"`
	Guests            int                     `json:"guests"`
	TotalPriceCents   int64                   `json:"total_price_cents"`
	DiscountCents     int64                   `json:"discount_cents,omitempty"`
	AppliedPromoCode  string                  `json:"applied_promo_code,omitempty"`
	Merchandise       []model.MerchandiseLine `json:"merchandise,omitempty"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:               b.ID,
		ReservationID:    b.ReservationID,
		Status:           b.Status,
		IsOverbooking:    b.IsOverbooking,
		ShowSlotID:       b.ShowSlotID,
		PackageName:      b.PackageName,
		Guests:           b.Guests,
		TotalPriceCents:  b.TotalPriceCents,
		DiscountCents:    b.DiscountCents,
		AppliedPromoCode: b.AppliedPromoCode,
		Merchandise:      b.Merchandise,
	}
}

// Submit takes a reservation request from the booking widget.  A
// repeated submission_key returns the originally created booking with
// 200 instead of 201, so double clicks and retried requests stay
// harmless.
func (h *PublicBookingHandler) Submit(c echo.Context) error {
	var req submitBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.ShowSlotID == 0 || req.PackageID == 0 || req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_slot_id, package_id, name and email required"})
	}

	in := booking.SubmitInput{
		SubmissionKey: strings.TrimSpace(req.SubmissionKey),
		ShowSlotID:    req.ShowSlotID,
		PackageID:     req.PackageID,
		Guests:        req.Guests,
		AddOnIDs:      req.AddOnIDs,
		PromoCode:     req.PromoCode,
		Customer: booking.CustomerDetails{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   strings.TrimSpace(req.Phone),
			Address: strings.TrimSpace(req.Address),
		},
	}
	for _, m := range req.Merchandise {
		in.Merchandise = append(in.Merchandise, booking.MerchandiseSelection{
			MerchandiseID: m.MerchandiseID,
			Quantity:      m.Quantity,
		})
	}

	res, err := h.Bookings.Submit(c.Request().Context(), in)
	if err != nil {
		return submitError(c, err)
	}
	status := http.StatusCreated
	if res.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, toBookingResp(res.Booking))
}

// submitError maps submission failures onto HTTP responses.
func submitError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrShowSlotNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	case errors.Is(err, repository.ErrPackageNotFound), errors.Is(err, booking.ErrPackageNotAllowed):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "package not available for this show"})
	case errors.Is(err, booking.ErrShowSlotClosed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "show closed for bookings, join the waiting list"})
	case errors.Is(err, booking.ErrInvalidGuests),
		errors.Is(err, booking.ErrUnknownAddOn),
		errors.Is(err, booking.ErrUnknownMerchandise),
		errors.Is(err, pricing.ErrNoPriceForTier):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrIdempotencyConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "submission key already used"})
	case errors.Is(err, repository.ErrPromoCodeNotFound):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown promo code"})
	case errors.Is(err, pricing.ErrPromoInactive),
		errors.Is(err, pricing.ErrPromoExpired),
		errors.Is(err, pricing.ErrPromoExhausted),
		errors.Is(err, pricing.ErrPromoMinNotMet):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "promo code not applicable: " + promoReason(unwrapPromo(err))})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
}

func unwrapPromo(err error) error {
	for _, sentinel := range []error{pricing.ErrPromoInactive, pricing.ErrPromoExpired, pricing.ErrPromoExhausted, pricing.ErrPromoMinNotMet} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}
