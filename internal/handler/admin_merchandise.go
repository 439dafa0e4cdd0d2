package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avelor/dinner-show-reservation/internal/model"
	"github.com/avelor/dinner-show-reservation/internal/repository"
)

// AdminMerchandiseHandler manages the merchandise catalog.
type AdminMerchandiseHandler struct {
	Merchandise *repository.MerchandiseRepo
}

func NewAdminMerchandiseHandler(merch *repository.MerchandiseRepo) *AdminMerchandiseHandler {
	return &AdminMerchandiseHandler{Merchandise: merch}
}

type merchandiseReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	IsActive    *bool  `json:"is_active"`
}

func (h *AdminMerchandiseHandler) Create(c echo.Context) error {
	var req merchandiseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || req.PriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and non-negative price_cents required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m := model.MerchandiseItem{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		PriceCents:  req.PriceCents,
		IsActive:    true,
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if err := h.Merchandise.Create(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *AdminMerchandiseHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Merchandise.List(ctx, c.QueryParam("active") == "true")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"merchandise": items})
}

func (h *AdminMerchandiseHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req merchandiseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || req.PriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and non-negative price_cents required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Merchandise.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMerchandiseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "merchandise item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	m.Name = strings.TrimSpace(req.Name)
	m.Description = strings.TrimSpace(req.Description)
	m.PriceCents = req.PriceCents
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if err := h.Merchandise.Update(ctx, &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// Delete deactivates an item; booking lines keep the denormalized name
// and price.
func (h *AdminMerchandiseHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Merchandise.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMerchandiseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "merchandise item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
