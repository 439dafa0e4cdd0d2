package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelor/dinner-show-reservation/internal/booking"
	"github.com/avelor/dinner-show-reservation/internal/model"
	"github.com/avelor/dinner-show-reservation/internal/repository"
)

// AdminWaitlistHandler manages the per-slot waiting lists.
type AdminWaitlistHandler struct {
	Service *booking.Service
	Waiting *repository.WaitingListRepo
}

func NewAdminWaitlistHandler(svc *booking.Service, waiting *repository.WaitingListRepo) *AdminWaitlistHandler {
	return &AdminWaitlistHandler{Service: svc, Waiting: waiting}
}

// List returns a slot's waiting list in queue order, optionally
// filtered by ?status=.
func (h *AdminWaitlistHandler) List(c echo.Context) error {
	slotID := queryUint(c, "show_slot_id")
	if slotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_slot_id required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	entries, err := h.Waiting.ListBySlot(ctx, slotID, strings.TrimSpace(c.QueryParam("status")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// Remove marks a pending entry as removed.  The row is kept for the
// records.
func (h *AdminWaitlistHandler) Remove(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	entry, err := h.Waiting.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWaitingEntryNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "waiting list entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if entry.Status != model.WaitingStatusPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "entry is not pending"})
	}
	if err := h.Waiting.UpdateStatus(ctx, id, model.WaitingStatusRemoved); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.WaitingStatusRemoved})
}

type bookFromWaitlistReq struct {
	PackageID uint64 `json:"package_id"`
	Confirm   bool   `json:"confirm"`
}

// Book converts a pending waiting list entry into a booking.  When the
// slot is full or closed, confirm must be true to proceed; an
// overbooking conversion still lands pending approval.
func (h *AdminWaitlistHandler) Book(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req bookFromWaitlistReq
	if err := c.Bind(&req); err != nil || req.PackageID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "package_id required"})
	}
	b, err := h.Service.BookFromWaitlist(c.Request().Context(), id, req.PackageID, req.Confirm, currentStaffEmail(c))
	if err != nil {
		return actionError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}
