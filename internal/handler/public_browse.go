package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelor/dinner-show-reservation/internal/model"
	"github.com/avelor/dinner-show-reservation/internal/pricing"
	"github.com/avelor/dinner-show-reservation/internal/repository"
)

// PublicBrowseHandler serves the unauthenticated browse endpoints the
// booking widget calls: upcoming shows with availability, active
// packages, merchandise, promo validation and joining the waiting list.
type PublicBrowseHandler struct {
	Slots       *repository.ShowSlotRepo
	Packages    *repository.PackageRepo
	Merchandise *repository.MerchandiseRepo
	Promos      *repository.PromoCodeRepo
	Waiting     *repository.WaitingListRepo
}

func NewPublicBrowseHandler(slots *repository.ShowSlotRepo, pkgs *repository.PackageRepo, merch *repository.MerchandiseRepo, promos *repository.PromoCodeRepo, waiting *repository.WaitingListRepo) *PublicBrowseHandler {
	return &PublicBrowseHandler{Slots: slots, Packages: pkgs, Merchandise: merch, Promos: promos, Waiting: waiting}
}

type showSlotResp struct {
	ID             uint64   `json:"id"`
	ShowDate       string   `json:"show_date"`
	ShowTime       string   `json:"show_time"`
	Capacity       int      `json:"capacity"`
	AvailableSeats int      `json:"available_seats"`
	IsClosed       bool     `json:"is_closed"`
	PriceTier      string   `json:"price_tier"`
	PackageIDs     []uint64 `json:"package_ids,omitempty"`
}

// ListShows returns upcoming show slots from today on.  Booked counts
// are not exposed; the widget only sees remaining availability so full
// and closed slots can offer the waiting list instead.
func (h *PublicBrowseHandler) ListShows(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	from := c.QueryParam("from")
	if from == "" {
		from = time.Now().UTC().Format("2006-01-02")
	}
	slots, err := h.Slots.ListUpcoming(ctx, from)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]showSlotResp, 0, len(slots))
	for _, s := range slots {
		out = append(out, showSlotResp{
			ID:             s.ID,
			ShowDate:       s.ShowDate,
			ShowTime:       s.ShowTime,
			Capacity:       s.Capacity,
			AvailableSeats: s.AvailableSeats(),
			IsClosed:       s.IsManuallyClosed,
			PriceTier:      s.Tier(),
			PackageIDs:     s.PackageIDs,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": out})
}

type packageResp struct {
	ID          uint64                           `json:"id"`
	Name        string                           `json:"name"`
	Description string                           `json:"description"`
	PriceCents  int64                            `json:"price_cents,omitempty"`
	PriceLevels map[string]model.PriceLevel      `json:"price_levels,omitempty"`
	AddOns      []model.AddOn                    `json:"add_ons,omitempty"`
}

// ListPackages returns the active packages with their add-ons and
// prices.
func (h *PublicBrowseHandler) ListPackages(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	pkgs, err := h.Packages.List(ctx, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]packageResp, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, packageResp{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			PriceCents:  p.PriceCents,
			PriceLevels: p.PriceLevels,
			AddOns:      p.AddOns,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"packages": out})
}

// ListMerchandise returns the active merchandise catalog.
func (h *PublicBrowseHandler) ListMerchandise(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Merchandise.List(ctx, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"merchandise": items})
}

type validatePromoReq struct {
	Code          string `json:"code"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

// ValidatePromo checks a promo code against a provisional subtotal so
// the widget can show the discount before submission.  Validation here
// never consumes a use; only the submission transaction increments the
// usage counter.
func (h *PublicBrowseHandler) ValidatePromo(c echo.Context) error {
	var req validatePromoReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	promo, err := h.Promos.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(req.Code)))
	if err != nil {
		if err == repository.ErrPromoCodeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown promo code"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	discount, err := pricing.Discount(promo, req.SubtotalCents, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"valid": false, "reason": promoReason(err)})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"valid":          true,
		"discount_cents": discount,
		"type":           promo.Type,
	})
}

func promoReason(err error) string {
	switch err {
	case pricing.ErrPromoInactive:
		return "inactive"
	case pricing.ErrPromoExpired:
		return "expired"
	case pricing.ErrPromoExhausted:
		return "usage_limit_reached"
	case pricing.ErrPromoMinNotMet:
		return "below_minimum"
	}
	return "invalid"
}

type joinWaitlistReq struct {
	ShowSlotID uint64 `json:"show_slot_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Guests     int    `json:"guests"`
}

// JoinWaitlist adds a contact to a slot's waiting list.  Entries never
// hold capacity, so this works for full and closed slots alike.
func (h *PublicBrowseHandler) JoinWaitlist(c echo.Context) error {
	var req joinWaitlistReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.ShowSlotID == 0 || req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_slot_id, name and email required"})
	}
	if req.Guests < 1 {
		req.Guests = 1
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Slots.GetByID(ctx, req.ShowSlotID); err != nil {
		if err == repository.ErrShowSlotNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	entry := model.WaitingListEntry{
		ShowSlotID: req.ShowSlotID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      strings.TrimSpace(req.Phone),
		Guests:     req.Guests,
		Status:     model.WaitingStatusPending,
	}
	if err := h.Waiting.Create(ctx, &entry); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"entry_id": entry.ID, "status": entry.Status})
}
