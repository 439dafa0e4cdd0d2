package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avelor/dinner-show-reservation/internal/repository"
)

// AdminAuditHandler serves the audit trail and the customer directory.
type AdminAuditHandler struct {
	Audit     *repository.AuditRepo
	Customers *repository.CustomerRepo
}

func NewAdminAuditHandler(audit *repository.AuditRepo, customers *repository.CustomerRepo) *AdminAuditHandler {
	return &AdminAuditHandler{Audit: audit, Customers: customers}
}

// ListAudit returns the newest audit entries, ?limit= capped by the
// repository.
func (h *AdminAuditHandler) ListAudit(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.Audit.List(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

// ListCustomers returns the customer directory built up by booking
// submissions.
func (h *AdminAuditHandler) ListCustomers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	customers, err := h.Customers.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"customers": customers})
}
