package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelor/dinner-show-reservation/internal/model"
	"github.com/avelor/dinner-show-reservation/internal/repository"
)

// AdminPackageHandler manages the package catalog.
type AdminPackageHandler struct {
	Packages *repository.PackageRepo
}

func NewAdminPackageHandler(pkgs *repository.PackageRepo) *AdminPackageHandler {
	return &AdminPackageHandler{Packages: pkgs}
}

type packageReq struct {
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	PriceCents  int64                       `json:"price_cents"`
	PriceLevels map[string]model.PriceLevel `json:"price_levels"`
	AddOns      []model.AddOn               `json:"add_ons"`
	IsActive    *bool                       `json:"is_active"`
}

func (r packageReq) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name required"
	}
	if r.PriceCents < 0 {
		return "price_cents must not be negative"
	}
	if r.PriceCents == 0 && len(r.PriceLevels) == 0 {
		return "either price_cents or price_levels required"
	}
	for _, a := range r.AddOns {
		if a.ID == 0 || strings.TrimSpace(a.Name) == "" || a.PriceCents < 0 {
			return "add_ons entries need id, name and a non-negative price"
		}
	}
	return ""
}

func (h *AdminPackageHandler) Create(c echo.Context) error {
	var req packageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := model.PackageOption{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		PriceCents:  req.PriceCents,
		PriceLevels: req.PriceLevels,
		AddOns:      req.AddOns,
		IsActive:    true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := h.Packages.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// List returns every package; pass ?active=true for the public subset.
func (h *AdminPackageHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	pkgs, err := h.Packages.List(ctx, c.QueryParam("active") == "true")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"packages": pkgs})
}

func (h *AdminPackageHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req packageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Packages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	p.Name = strings.TrimSpace(req.Name)
	p.Description = strings.TrimSpace(req.Description)
	p.PriceCents = req.PriceCents
	p.PriceLevels = req.PriceLevels
	p.AddOns = req.AddOns
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := h.Packages.Update(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete deactivates a package.  Existing bookings keep their
// denormalized package name and price.
func (h *AdminPackageHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Packages.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "package not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
