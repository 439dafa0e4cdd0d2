package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avelor/dinner-show-reservation/internal/repository"
)

// AdminSettingsHandler exposes the singleton application settings.
type AdminSettingsHandler struct {
	Settings *repository.SettingsRepo
}

func NewAdminSettingsHandler(s *repository.SettingsRepo) *AdminSettingsHandler {
	return &AdminSettingsHandler{Settings: s}
}

func (h *AdminSettingsHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Settings.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}

type settingsReq struct {
	CompanyName     string `json:"company_name"`
	CompanyAddress  string `json:"company_address"`
	CompanyEmail    string `json:"company_email"`
	CompanyPhone    string `json:"company_phone"`
	InvoicePrefix   string `json:"invoice_prefix"`
	VATRateBP       int    `json:"vat_rate_bp"`
	DefaultShowTime string `json:"default_show_time"`
}

// Update edits the company and billing settings.  The invoice sequence
// is not editable from here; it only advances when invoices are
// created.
func (h *AdminSettingsHandler) Update(c echo.Context) error {
	var req settingsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.VATRateBP < 0 || req.VATRateBP > 10000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vat_rate_bp must be between 0 and 10000"})
	}
	if req.DefaultShowTime != "" {
		if _, err := time.Parse("15:04", req.DefaultShowTime); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "default_show_time must be HH:MM"})
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Settings.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	s.CompanyName = strings.TrimSpace(req.CompanyName)
	s.CompanyAddress = strings.TrimSpace(req.CompanyAddress)
	s.CompanyEmail = strings.ToLower(strings.TrimSpace(req.CompanyEmail))
	s.CompanyPhone = strings.TrimSpace(req.CompanyPhone)
	if p := strings.TrimSpace(req.InvoicePrefix); p != "" {
		s.InvoicePrefix = strings.ToUpper(p)
	}
	s.VATRateBP = req.VATRateBP
	s.DefaultShowTime = req.DefaultShowTime
	if err := h.Settings.Update(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, s)
}
