package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/srvk/hardware-rental/internal/booking"
	"github.com/srvk/hardware-rental/internal/model"
	"github.com/srvk/hardware-rental/internal/repository"
)

// AssetHandler serves the public catalog plus the admin CRUD for the
// asset fleet. Public routes sit behind the response cache; admin
// routes never do.
type AssetHandler struct {
	Assets       *repository.AssetRepo
	Reservations *repository.ReservationRepo
}

func NewAssetHandler(a *repository.AssetRepo, r *repository.ReservationRepo) *AssetHandler {
	if a == nil || r == nil {
		panic("nil repository passed to NewAssetHandler")
	}
	return &AssetHandler{Assets: a, Reservations: r}
}

type assetReq struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	ImageURL       string `json:"image_url"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	DailyRateCents int64  `json:"daily_rate_cents"`
	TotalStock     *int   `json:"total_stock"`
}

type assetResp struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	ImageURL       string `json:"image_url,omitempty"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	DailyRateCents int64  `json:"daily_rate_cents"`
	TotalStock     int    `json:"total_stock"`
	AvailableStock int    `json:"available_stock"`
	Available      bool   `json:"available"`
}

func toAssetResp(a model.Asset) assetResp {
	return assetResp{
		ID:             a.ID,
		Name:           a.Name,
		Description:    a.Description,
		Category:       a.Category,
		ImageURL:       a.ImageURL,
		UnitPriceCents: a.UnitPriceCents,
		DailyRateCents: a.DailyRateCents,
		TotalStock:     a.TotalStock,
		AvailableStock: a.AvailableStock,
		Available:      a.Available(),
	}
}

// List handles GET /v1/assets?category=... and returns the catalog.
func (h *AssetHandler) List(c echo.Context) error {
	assets, err := h.Assets.List(c.Request().Context(), strings.TrimSpace(c.QueryParam("category")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]assetResp, 0, len(assets))
	for _, a := range assets {
		out = append(out, toAssetResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"assets": out})
}

// Get handles GET /v1/assets/:id.
func (h *AssetHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset id"})
	}
	a, err := h.Assets.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrAssetNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toAssetResp(a))
}

// Create handles POST /v1/admin/assets.
func (h *AssetHandler) Create(c echo.Context) error {
	var req assetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.UnitPriceCents < 0 || req.DailyRateCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prices must not be negative"})
	}
	total := 0
	if req.TotalStock != nil {
		total = *req.TotalStock
	}
	if total < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_stock must not be negative"})
	}

	a := model.Asset{
		Name:           req.Name,
		Description:    req.Description,
		Category:       strings.TrimSpace(req.Category),
		ImageURL:       strings.TrimSpace(req.ImageURL),
		UnitPriceCents: req.UnitPriceCents,
		DailyRateCents: req.DailyRateCents,
		TotalStock:     total,
	}
	if err := h.Assets.Create(c.Request().Context(), &a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create asset failed"})
	}
	return c.JSON(http.StatusCreated, toAssetResp(a))
}

// Update handles PUT /v1/admin/assets/:id. Descriptive fields are
// rewritten as a whole; a total_stock value additionally resizes the
// fleet through the adjustment path, which refuses to drop below
// what is currently committed.
func (h *AssetHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset id"})
	}
	var req assetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.UnitPriceCents < 0 || req.DailyRateCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prices must not be negative"})
	}

	ctx := c.Request().Context()
	a := model.Asset{
		ID:             id,
		Name:           req.Name,
		Description:    req.Description,
		Category:       strings.TrimSpace(req.Category),
		ImageURL:       strings.TrimSpace(req.ImageURL),
		UnitPriceCents: req.UnitPriceCents,
		DailyRateCents: req.DailyRateCents,
	}
	if err := h.Assets.UpdateDetails(ctx, a); err != nil {
		if err == repository.ErrAssetNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update asset failed"})
	}
	if req.TotalStock != nil {
		if err := h.Assets.AdjustTotalStock(ctx, id, *req.TotalStock); err != nil {
			switch {
			case errors.Is(err, booking.ErrInvalidAdjustment):
				return c.JSON(http.StatusConflict, echo.Map{"error": "total stock below committed quantity"})
			case err == repository.ErrAssetNotFound:
				return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "adjust stock failed"})
			}
		}
	}
	updated, err := h.Assets.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toAssetResp(updated))
}

// Delete handles DELETE /v1/admin/assets/:id. Assets with active
// reservations cannot be removed.
func (h *AssetHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset id"})
	}
	if err := h.Assets.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "asset has active reservations"})
		case repository.ErrAssetNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete asset failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Bookings handles GET /v1/admin/assets/:id/reservations, listing
// every reservation of an asset for fleet oversight.
func (h *AssetHandler) Bookings(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Assets.GetByID(ctx, id); err != nil {
		if err == repository.ErrAssetNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	list, err := h.Reservations.ListByAsset(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]reservationResp, 0, len(list))
	for _, r := range list {
		out = append(out, toReservationResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}
