package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelor/dinner-show-reservation/internal/model"
	"github.com/avelor/dinner-show-reservation/internal/repository"
)

// AdminPromoHandler manages promo and gift-card codes.
type AdminPromoHandler struct {
	Promos *repository.PromoCodeRepo
}

func NewAdminPromoHandler(promos *repository.PromoCodeRepo) *AdminPromoHandler {
	return &AdminPromoHandler{Promos: promos}
}

type promoReq struct {
	Code            string `json:"code"`
	Type            string `json:"type"` // percentage | fixed_amount | gift_card
	ValueCents      int64  `json:"value_cents"`
	UsageLimit      int    `json:"usage_limit"`
	MinBookingCents int64  `json:"min_booking_cents"`
	ExpirationDate  string `json:"expiration_date"` // "2006-01-02", empty = never
	IsActive        *bool  `json:"is_active"`
}

func (r promoReq) toModel() (model.PromoCode, string) {
	code := strings.ToUpper(strings.TrimSpace(r.Code))
	if code == "" {
		return model.PromoCode{}, "code required"
	}
	switch r.Type {
	case model.PromoTypePercentage:
		if r.ValueCents < 1 || r.ValueCents > 100 {
			return model.PromoCode{}, "percentage value must be between 1 and 100"
		}
	case model.PromoTypeFixedAmount, model.PromoTypeGiftCard:
		if r.ValueCents < 1 {
			return model.PromoCode{}, "value_cents must be positive"
		}
	default:
		return model.PromoCode{}, "type must be percentage, fixed_amount or gift_card"
	}
	p := model.PromoCode{
		Code:            code,
		Type:            r.Type,
		ValueCents:      r.ValueCents,
		UsageLimit:      r.UsageLimit,
		MinBookingCents: r.MinBookingCents,
		IsActive:        true,
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	if r.ExpirationDate != "" {
		t, err := time.Parse("2006-01-02", r.ExpirationDate)
		if err != nil {
			return model.PromoCode{}, "expiration_date must be YYYY-MM-DD"
		}
		// codes stay valid through the stated day
		exp := t.Add(24*time.Hour - time.Second)
		p.ExpirationDate = &exp
	}
	return p, ""
}

func (h *AdminPromoHandler) Create(c echo.Context) error {
	var req promoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Promos.Create(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminPromoHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	promos, err := h.Promos.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"promo_codes": promos})
}

func (h *AdminPromoHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req promoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p, msg := req.toModel()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	p.ID = id

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Promos.Update(ctx, &p); err != nil {
		switch {
		case errors.Is(err, repository.ErrPromoCodeNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "promo code not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminPromoHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Promos.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPromoCodeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "promo code not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
