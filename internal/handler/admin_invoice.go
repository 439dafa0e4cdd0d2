package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelor/dinner-show-reservation/internal/billing"
	"github.com/avelor/dinner-show-reservation/internal/model"
	"github.com/avelor/dinner-show-reservation/internal/repository"
)

// AdminInvoiceHandler drives the billing lifecycle from the back
// office.
type AdminInvoiceHandler struct {
	Billing  *billing.Service
	Invoices *repository.InvoiceRepo
}

func NewAdminInvoiceHandler(b *billing.Service, invoices *repository.InvoiceRepo) *AdminInvoiceHandler {
	return &AdminInvoiceHandler{Billing: b, Invoices: invoices}
}

type createInvoiceReq struct {
	BookingID uint64 `json:"booking_id"`
	DueInDays int    `json:"due_in_days"`
}

// Create issues a draft invoice for a booking.
func (h *AdminInvoiceHandler) Create(c echo.Context) error {
	var req createInvoiceReq
	if err := c.Bind(&req); err != nil || req.BookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id required"})
	}
	inv, err := h.Billing.CreateForBooking(c.Request().Context(), req.BookingID, req.DueInDays, currentStaffEmail(c))
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(http.StatusCreated, inv)
}

// List returns invoices, optionally filtered by ?booking_id=.
func (h *AdminInvoiceHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	invoices, err := h.Invoices.List(ctx, queryUint(c, "booking_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"invoices": invoices})
}

func (h *AdminInvoiceHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	inv, err := h.Invoices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invoice not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, inv)
}

type transitionReq struct {
	Status string `json:"status"` // sent | paid | overdue
}

// Transition moves an invoice to the requested lifecycle status.
func (h *AdminInvoiceHandler) Transition(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	to := strings.TrimSpace(req.Status)
	switch to {
	case model.InvoiceStatusSent, model.InvoiceStatusPaid, model.InvoiceStatusOverdue:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be sent, paid or overdue"})
	}
	inv, err := h.Billing.Transition(c.Request().Context(), id, to, currentStaffEmail(c))
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

// CreditNote credits an issued invoice.
func (h *AdminInvoiceHandler) CreditNote(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	note, err := h.Billing.CreditNote(c.Request().Context(), id, currentStaffEmail(c))
	if err != nil {
		return invoiceError(c, err)
	}
	return c.JSON(http.StatusCreated, note)
}

func invoiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrInvoiceNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "invoice not found"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, billing.ErrNotInvoiceable):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, billing.ErrInvalidTransition), errors.Is(err, billing.ErrAlreadyCredited):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operation failed"})
}
