package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/srvk/hardware-rental/internal/booking"
	"github.com/srvk/hardware-rental/internal/model"
	"github.com/srvk/hardware-rental/internal/repository"
)

// CartHandler manages the user's staging area. Cart writes validate
// input shape and asset existence only; stock and capacity are
// enforced at checkout, the one place where writes happen under
// locks. A cart entry never blocks stock for anyone.
type CartHandler struct {
	Carts  *repository.CartRepo
	Assets *repository.AssetRepo
}

func NewCartHandler(carts *repository.CartRepo, assets *repository.AssetRepo) *CartHandler {
	if carts == nil || assets == nil {
		panic("nil repository passed to NewCartHandler")
	}
	return &CartHandler{Carts: carts, Assets: assets}
}

type addProductReq struct {
	AssetID  uint64 `json:"asset_id"`
	Quantity int    `json:"quantity"`
}

type addRentalReq struct {
	AssetID   uint64 `json:"asset_id"`
	Quantity  int    `json:"quantity"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

type cartLineResp struct {
	AssetID       uint64 `json:"asset_id"`
	AssetName     string `json:"asset_name"`
	Kind          string `json:"kind"`
	Quantity      int    `json:"quantity"`
	PriceCents    int64  `json:"price_cents"`
	SubtotalCents int64  `json:"subtotal_cents"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	Days          int    `json:"days,omitempty"`
}

// AddProduct handles POST /v1/cart/products. Repeating the call for
// the same asset accumulates quantity.
func (h *CartHandler) AddProduct(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req addProductReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be greater than zero"})
	}
	ctx := c.Request().Context()
	if _, err := h.Assets.GetByID(ctx, req.AssetID); err != nil {
		if err == repository.ErrAssetNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Carts.UpsertProduct(ctx, uid, req.AssetID, req.Quantity); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cart failed"})
	}
	return h.snapshot(c, uid, http.StatusCreated)
}

// AddRental handles POST /v1/cart/rentals. Repeating the call for
// the same asset replaces the previous quantity and dates.
func (h *CartHandler) AddRental(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req addRentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be greater than zero"})
	}
	start, err := booking.ParseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
	}
	end, err := booking.ParseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
	}
	if err := booking.ValidateRange(start, end); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be before end_date"})
	}
	ctx := c.Request().Context()
	if _, err := h.Assets.GetByID(ctx, req.AssetID); err != nil {
		if err == repository.ErrAssetNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Carts.UpsertRental(ctx, uid, req.AssetID, req.Quantity, start, end); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cart failed"})
	}
	return h.snapshot(c, uid, http.StatusCreated)
}

// Get handles GET /v1/cart and returns the priced snapshot.
func (h *CartHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return h.snapshot(c, uid, http.StatusOK)
}

// RemoveProduct handles DELETE /v1/cart/products/:asset_id.
func (h *CartHandler) RemoveProduct(c echo.Context) error {
	return h.remove(c, model.CartKindProduct)
}

// RemoveRental handles DELETE /v1/cart/rentals/:asset_id.
func (h *CartHandler) RemoveRental(c echo.Context) error {
	return h.remove(c, model.CartKindRental)
}

// remove deletes one entry by key. Removing an entry that is not
// there succeeds with the current snapshot, so clients can retry
// freely.
func (h *CartHandler) remove(c echo.Context, kind string) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	assetID, err := pathID(c, "asset_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset id"})
	}
	if err := h.Carts.Remove(c.Request().Context(), uid, assetID, kind); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cart failed"})
	}
	return h.snapshot(c, uid, http.StatusOK)
}

// snapshot joins cart entries with their assets and prices each
// line. Entries whose asset has vanished are skipped rather than
// failing the whole cart.
func (h *CartHandler) snapshot(c echo.Context, uid uint64, status int) error {
	ctx := c.Request().Context()
	entries, err := h.Carts.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	lines := make([]cartLineResp, 0, len(entries))
	var total int64
	for _, e := range entries {
		a, err := h.Assets.GetByID(ctx, e.AssetID)
		if err != nil {
			if err == repository.ErrAssetNotFound {
				continue
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		line := cartLineResp{
			AssetID:   e.AssetID,
			AssetName: a.Name,
			Kind:      e.Kind,
			Quantity:  e.Quantity,
		}
		switch e.Kind {
		case model.CartKindRental:
			if e.StartDate == nil || e.EndDate == nil {
				continue
			}
			line.PriceCents = a.DailyRateCents
			line.SubtotalCents = booking.Cost(a.DailyRateCents, e.Quantity, *e.StartDate, *e.EndDate)
			line.StartDate = booking.FormatDate(*e.StartDate)
			line.EndDate = booking.FormatDate(*e.EndDate)
			line.Days = booking.Days(*e.StartDate, *e.EndDate)
		default:
			line.PriceCents = a.UnitPriceCents
			line.SubtotalCents = a.UnitPriceCents * int64(e.Quantity)
		}
		total += line.SubtotalCents
		lines = append(lines, line)
	}
	return c.JSON(status, echo.Map{"items": lines, "total_cents": total})
}
