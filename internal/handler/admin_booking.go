package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/avelor/dinner-show-reservation/internal/booking"
	"github.com/avelor/dinner-show-reservation/internal/model"
	"github.com/avelor/dinner-show-reservation/internal/repository"
)

// AdminBookingHandler covers the back-office booking workflow: listing
// and inspecting bookings plus the lifecycle actions that go through
// the booking orchestrator.
type AdminBookingHandler struct {
	Service  *booking.Service
	Bookings *repository.BookingRepo
	Slots    *repository.ShowSlotRepo
}

func NewAdminBookingHandler(svc *booking.Service, bookings *repository.BookingRepo, slots *repository.ShowSlotRepo) *AdminBookingHandler {
	return &AdminBookingHandler{Service: svc, Bookings: bookings, Slots: slots}
}

// List returns bookings, optionally filtered by ?show_slot_id= and
// ?status=.
func (h *AdminBookingHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	status := strings.TrimSpace(c.QueryParam("status"))
	items, err := h.Bookings.List(ctx, queryUint(c, "show_slot_id"), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

// Get returns the full booking record including internal notes and
// reschedule history.
func (h *AdminBookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, b)
}

// Approve confirms a pending overbooking.
func (h *AdminBookingHandler) Approve(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Service.Approve(c.Request().Context(), id, currentStaffEmail(c))
	if err != nil {
		return actionError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

type reasonReq struct {
	Reason string `json:"reason"`
}

// Reject declines a pending overbooking.
func (h *AdminBookingHandler) Reject(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reasonReq
	_ = c.Bind(&req)
	b, err := h.Service.Reject(c.Request().Context(), id, currentStaffEmail(c), strings.TrimSpace(req.Reason))
	if err != nil {
		return actionError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

type cancelReq struct {
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelled_by"` // user | admin
}

// Cancel cancels a booking.  cancelled_by records whether the guest
// asked for it or the back office initiated it.
func (h *AdminBookingHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req cancelReq
	_ = c.Bind(&req)
	actor := model.ActorAdmin
	if strings.EqualFold(req.CancelledBy, model.ActorUser) {
		actor = model.ActorUser
	}
	b, err := h.Service.Cancel(c.Request().Context(), id, actor, strings.TrimSpace(req.Reason))
	if err != nil {
		return actionError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// MoveToWaitlist parks a live booking on the slot's waiting list.
func (h *AdminBookingHandler) MoveToWaitlist(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, entry, err := h.Service.MoveToWaitlist(c.Request().Context(), id, currentStaffEmail(c))
	if err != nil {
		return actionError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b, "waiting_entry": entry})
}

type rescheduleReq struct {
	NewShowSlotID    uint64 `json:"new_show_slot_id"`
	AllowOverbooking bool   `json:"allow_overbooking"`
}

// Reschedule moves a booking to a different show slot.
func (h *AdminBookingHandler) Reschedule(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req rescheduleReq
	if err := c.Bind(&req); err != nil || req.NewShowSlotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_show_slot_id required"})
	}
	b, err := h.Service.Reschedule(c.Request().Context(), id, req.NewShowSlotID, req.AllowOverbooking, currentStaffEmail(c))
	if err != nil {
		return actionError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// QR renders the booking's reservation id as a QR code PNG, printed on
// door lists and scanned at entry.
func (h *AdminBookingHandler) QR(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	slot, err := h.Slots.GetByID(ctx, b.ShowSlotID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	content := fmt.Sprintf("%s|%s %s|%d", b.ReservationID, slot.ShowDate, slot.ShowTime, b.Guests)
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "qr encode failed"})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// actionError maps orchestrator failures onto HTTP responses shared by
// all booking lifecycle actions.
func actionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrShowSlotNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
	case errors.Is(err, repository.ErrWaitingEntryNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "waiting list entry not found"})
	case errors.Is(err, booking.ErrInvalidStatus):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrSameSlot):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "booking is already on that show slot"})
	case errors.Is(err, booking.ErrConfirmationRequired):
		return c.JSON(http.StatusConflict, echo.Map{"error": "slot full or closed, pass confirm=true to proceed"})
	case errors.Is(err, booking.ErrPackageNotAllowed), errors.Is(err, repository.ErrPackageNotFound):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "package not available for this show"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operation failed"})
}
