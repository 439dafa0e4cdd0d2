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

// AdminShowHandler manages show slots: single and bulk creation,
// updates, manual closing and the occupancy report.
type AdminShowHandler struct {
	Slots    *repository.ShowSlotRepo
	Bookings *repository.BookingRepo
}

func NewAdminShowHandler(slots *repository.ShowSlotRepo, bookings *repository.BookingRepo) *AdminShowHandler {
	return &AdminShowHandler{Slots: slots, Bookings: bookings}
}

type showSlotReq struct {
	ShowDate   string   `json:"show_date"` // "2006-01-02"
	ShowTime   string   `json:"show_time"` // "15:04"
	Capacity   int      `json:"capacity"`
	PriceTier  string   `json:"price_tier"`
	PackageIDs []uint64 `json:"package_ids"`
}

func (r showSlotReq) validate() string {
	if _, err := time.Parse("2006-01-02", r.ShowDate); err != nil {
		return "show_date must be YYYY-MM-DD"
	}
	if _, err := time.Parse("15:04", r.ShowTime); err != nil {
		return "show_time must be HH:MM"
	}
	if r.Capacity < 1 {
		return "capacity must be at least 1"
	}
	return ""
}

// Create adds one show slot.
func (h *AdminShowHandler) Create(c echo.Context) error {
	var req showSlotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	slot := model.ShowSlot{
		ShowDate:   req.ShowDate,
		ShowTime:   req.ShowTime,
		Capacity:   req.Capacity,
		PriceTier:  req.PriceTier,
		PackageIDs: req.PackageIDs,
	}
	if err := h.Slots.Create(ctx, &slot); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "show slot already exists for this date and time"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, slot)
}

type bulkCreateReq struct {
	StartDate  string   `json:"start_date"` // inclusive
	EndDate    string   `json:"end_date"`   // inclusive
	Weekdays   []string `json:"weekdays"`   // e.g. ["friday","saturday"]; empty = every day
	ShowTime   string   `json:"show_time"`
	Capacity   int      `json:"capacity"`
	PriceTier  string   `json:"price_tier"`
	PackageIDs []uint64 `json:"package_ids"`
}

// BulkCreate creates a slot for every matching date in the range.
// Dates that already carry a slot at that time are skipped and
// reported, so re-running a season setup is safe.
func (h *AdminShowHandler) BulkCreate(c echo.Context) error {
	var req bulkCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil || end.Before(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD and not before start_date"})
	}
	if end.Sub(start) > 366*24*time.Hour {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "range too large, one year maximum"})
	}
	if _, err := time.Parse("15:04", req.ShowTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_time must be HH:MM"})
	}
	if req.Capacity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
	}

	wanted := map[time.Weekday]bool{}
	for _, w := range req.Weekdays {
		switch strings.ToLower(strings.TrimSpace(w)) {
		case "monday":
			wanted[time.Monday] = true
		case "tuesday":
			wanted[time.Tuesday] = true
		case "wednesday":
			wanted[time.Wednesday] = true
		case "thursday":
			wanted[time.Thursday] = true
		case "friday":
			wanted[time.Friday] = true
		case "saturday":
			wanted[time.Saturday] = true
		case "sunday":
			wanted[time.Sunday] = true
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown weekday: " + w})
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	var created []model.ShowSlot
	var skipped []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if len(wanted) > 0 && !wanted[d.Weekday()] {
			continue
		}
		slot := model.ShowSlot{
			ShowDate:   d.Format("2006-01-02"),
			ShowTime:   req.ShowTime,
			Capacity:   req.Capacity,
			PriceTier:  req.PriceTier,
			PackageIDs: req.PackageIDs,
		}
		if err := h.Slots.Create(ctx, &slot); err != nil {
			if errors.Is(err, repository.ErrDuplicateSlot) {
				skipped = append(skipped, slot.ShowDate)
				continue
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
		}
		created = append(created, slot)
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": created, "skipped_dates": skipped})
}

// List returns slots from the given date on (default today), including
// booked counts for the back office.
func (h *AdminShowHandler) List(c echo.Context) error {
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
	return c.JSON(http.StatusOK, echo.Map{"shows": slots})
}

// Update edits a slot's date, time, capacity, tier or package list.
// The booked counter is deliberately not editable.
func (h *AdminShowHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req showSlotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	slot, err := h.Slots.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShowSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	slot.ShowDate = req.ShowDate
	slot.ShowTime = req.ShowTime
	slot.Capacity = req.Capacity
	slot.PriceTier = req.PriceTier
	slot.PackageIDs = req.PackageIDs
	if err := h.Slots.Update(ctx, &slot); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "show slot already exists for this date and time"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, slot)
}

type closeReq struct {
	Closed bool `json:"closed"`
}

// SetClosed toggles the manual closing switch that blocks new bookings
// while keeping existing ones.
func (h *AdminShowHandler) SetClosed(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req closeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Slots.SetClosed(ctx, id, req.Closed); err != nil {
		if errors.Is(err, repository.ErrShowSlotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "closed": req.Closed})
}

// Delete removes a slot without live bookings.  Slots with confirmed or
// pending bookings cannot be deleted; close them instead.
func (h *AdminShowHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Slots.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrShowSlotNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "show has live bookings, close it instead"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type occupancyRow struct {
	ShowSlotID     uint64 `json:"show_slot_id"`
	ShowDate       string `json:"show_date"`
	ShowTime       string `json:"show_time"`
	Capacity       int    `json:"capacity"`
	BookedCount    int    `json:"booked_count"`
	HeldGuests     int    `json:"held_guests"`
	CounterDrift   int    `json:"counter_drift"`
	IsClosed       bool   `json:"is_closed"`
}

// Occupancy reports per-slot utilization and cross-checks the
// denormalized booked counter against the guests of capacity-holding
// bookings.  A non-zero drift means manual data surgery happened and
// deserves a look.
func (h *AdminShowHandler) Occupancy(c echo.Context) error {
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
	held, err := h.Bookings.GuestTotalsBySlot(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	rows := make([]occupancyRow, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, occupancyRow{
			ShowSlotID:   s.ID,
			ShowDate:     s.ShowDate,
			ShowTime:     s.ShowTime,
			Capacity:     s.Capacity,
			BookedCount:  s.BookedCount,
			HeldGuests:   held[s.ID],
			CounterDrift: s.BookedCount - held[s.ID],
			IsClosed:     s.IsManuallyClosed,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"occupancy": rows})
}
