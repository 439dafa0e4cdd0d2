package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelor/dinner-show-reservation/internal/config"
	"github.com/avelor/dinner-show-reservation/internal/model"
	"github.com/avelor/dinner-show-reservation/internal/repository"
)

// AdminStaffHandler manages staff accounts and the shift schedule.
// All routes require the admin role except the schedule reads.
type AdminStaffHandler struct {
	Cfg    config.Config
	Staff  *repository.StaffRepo
	Shifts *repository.ShiftRepo
	Tokens *repository.TokenRepo
}

func NewAdminStaffHandler(cfg config.Config, staff *repository.StaffRepo, shifts *repository.ShiftRepo, tokens *repository.TokenRepo) *AdminStaffHandler {
	return &AdminStaffHandler{Cfg: cfg, Staff: staff, Shifts: shifts, Tokens: tokens}
}

type createStaffReq struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"` // ADMIN | STAFF
}

// Create adds a staff account.  Role defaults to STAFF.
func (h *AdminStaffHandler) Create(c echo.Context) error {
	var req createStaffReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.FullName == "" || len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, full_name and a password of 8+ characters required"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != model.RoleAdmin {
		role = model.RoleStaff
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Staff.Create(ctx, req.Email, req.FullName, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create staff failed"})
	}
	return c.JSON(http.StatusCreated, staffPart{ID: id, Email: req.Email, FullName: req.FullName, Role: role})
}

// List returns all staff accounts without password hashes.
func (h *AdminStaffHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	members, err := h.Staff.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	type row struct {
		ID       uint64 `json:"id"`
		Email    string `json:"email"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
		IsActive bool   `json:"is_active"`
	}
	out := make([]row, 0, len(members))
	for _, m := range members {
		out = append(out, row{ID: m.ID, Email: m.Email, FullName: m.FullName, Role: m.Role, IsActive: m.IsActive})
	}
	return c.JSON(http.StatusOK, echo.Map{"staff": out})
}

type setActiveReq struct {
	Active bool `json:"active"`
}

// SetActive enables or disables an account.  Disabling also revokes all
// refresh tokens so open sessions die with the account.
func (h *AdminStaffHandler) SetActive(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req setActiveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Staff.SetActive(ctx, id, req.Active); err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "staff member not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	if !req.Active {
		_ = h.Tokens.RevokeAllForStaff(ctx, id)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "active": req.Active})
}

// ----- shift schedule -----

type shiftReq struct {
	StaffID   uint64 `json:"staff_id"`
	ShiftDate string `json:"shift_date"` // "2006-01-02"
	StartsAt  string `json:"starts_at"`  // "15:04"
	EndsAt    string `json:"ends_at"`    // "15:04"
	Duty      string `json:"duty"`
	Notes     string `json:"notes"`
}

func (r shiftReq) validate() string {
	if r.StaffID == 0 {
		return "staff_id required"
	}
	if _, err := time.Parse("2006-01-02", r.ShiftDate); err != nil {
		return "shift_date must be YYYY-MM-DD"
	}
	start, err := time.Parse("15:04", r.StartsAt)
	if err != nil {
		return "starts_at must be HH:MM"
	}
	end, err := time.Parse("15:04", r.EndsAt)
	if err != nil {
		return "ends_at must be HH:MM"
	}
	if !end.After(start) {
		return "ends_at must be after starts_at"
	}
	return ""
}

// CreateShift plans a working period for a staff member.
func (h *AdminStaffHandler) CreateShift(c echo.Context) error {
	var req shiftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Staff.GetByID(ctx, req.StaffID); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "staff member not found"})
	}
	s := model.ScheduledShift{
		StaffID:   req.StaffID,
		ShiftDate: req.ShiftDate,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Duty:      strings.TrimSpace(req.Duty),
		Notes:     strings.TrimSpace(req.Notes),
	}
	if err := h.Shifts.Create(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

// ListShifts returns shifts in a date range (default: next seven days).
func (h *AdminStaffHandler) ListShifts(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	from := c.QueryParam("from")
	to := c.QueryParam("to")
	if from == "" {
		from = time.Now().UTC().Format("2006-01-02")
	}
	if to == "" {
		to = time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	}
	shifts, err := h.Shifts.ListByDateRange(ctx, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"shifts": shifts})
}

// UpdateShift edits a planned shift.
func (h *AdminStaffHandler) UpdateShift(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req shiftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Shifts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShiftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scheduled shift not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	s.StaffID = req.StaffID
	s.ShiftDate = req.ShiftDate
	s.StartsAt = req.StartsAt
	s.EndsAt = req.EndsAt
	s.Duty = strings.TrimSpace(req.Duty)
	s.Notes = strings.TrimSpace(req.Notes)
	if err := h.Shifts.Update(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteShift removes a planned shift.
func (h *AdminStaffHandler) DeleteShift(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Shifts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrShiftNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "scheduled shift not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
