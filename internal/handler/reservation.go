package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/srvk/hardware-rental/internal/booking"
	"github.com/srvk/hardware-rental/internal/model"
	"github.com/srvk/hardware-rental/internal/repository"
)

// ReservationHandler manages the rental lifecycle outside checkout:
// direct bookings, date edits, returns and cancellations. Every
// mutation runs in a transaction that locks the asset row first, so
// the capacity read and the compensating stock move are atomic.
type ReservationHandler struct {
	Assets       *repository.AssetRepo
	Reservations *repository.ReservationRepo
}

func NewReservationHandler(a *repository.AssetRepo, r *repository.ReservationRepo) *ReservationHandler {
	if a == nil || r == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Assets: a, Reservations: r}
}

type bookReq struct {
	AssetID   uint64 `json:"asset_id"`
	Quantity  int    `json:"quantity"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

type patchReservationReq struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"` // ACTIVE | RETURNED
}

type reservationResp struct {
	ID         uint64  `json:"id"`
	UserID     uint64  `json:"user_id"`
	AssetID    uint64  `json:"asset_id"`
	Quantity   int     `json:"quantity"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Days       int     `json:"days"`
	Status     string  `json:"status"`
	TotalCents int64   `json:"total_cents"`
	OrderID    *uint64 `json:"order_id,omitempty"`
}

func toReservationResp(r model.Reservation) reservationResp {
	return reservationResp{
		ID:         r.ID,
		UserID:     r.UserID,
		AssetID:    r.AssetID,
		Quantity:   r.Quantity,
		StartDate:  booking.FormatDate(r.StartDate),
		EndDate:    booking.FormatDate(r.EndDate),
		Days:       booking.Days(r.StartDate, r.EndDate),
		Status:     r.Status,
		TotalCents: r.TotalCents,
		OrderID:    r.OrderID,
	}
}

// Book handles POST /v1/reservations: a direct booking that skips
// the cart. Validation, the capacity check and the stock decrement
// run in one transaction under the asset's row lock.
func (h *ReservationHandler) Book(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bookReq
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
	tx, err := h.Assets.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	asset, err := h.Assets.GetForUpdateTx(ctx, tx, req.AssetID)
	if err != nil {
		if err == repository.ErrAssetNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	used, err := h.Reservations.SumOverlappingQtyTx(ctx, tx, asset.ID, start, end, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := booking.CheckCapacity(asset.ID, asset.TotalStock, used, req.Quantity); err != nil {
		return c.JSON(checkoutErrStatus(err), echo.Map{"error": err.Error()})
	}
	// The interval check is authoritative for rentals; the counter
	// floors at zero rather than vetoing a disjoint-window booking.
	if err := h.Assets.DecrementStockClampedTx(ctx, tx, asset.ID, req.Quantity); err != nil {
		return c.JSON(checkoutErrStatus(err), echo.Map{"error": err.Error()})
	}

	res := model.Reservation{
		UserID:     uid,
		AssetID:    asset.ID,
		Quantity:   req.Quantity,
		StartDate:  start,
		EndDate:    end,
		Status:     model.ReservationActive,
		TotalCents: booking.Cost(asset.DailyRateCents, req.Quantity, start, end),
	}
	if err := h.Reservations.CreateTx(ctx, tx, &res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true
	return c.JSON(http.StatusCreated, toReservationResp(res))
}

// List handles GET /v1/reservations and returns the caller's
// reservations, newest first.
func (h *ReservationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Reservations.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]reservationResp, 0, len(list))
	for _, r := range list {
		out = append(out, toReservationResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Get handles GET /v1/reservations/:id. Users only see their own
// reservations; admins see any.
func (h *ReservationHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if res.UserID != uid && c.Get("role") != model.RoleAdmin {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// Update handles PATCH /v1/reservations/:id. Two independent edits
// share the endpoint: new dates re-run the capacity check excluding
// the reservation's own id and reprice the rental; a status value
// drives the ACTIVE/RETURNED machine with its compensating stock
// move. Repeating the current status is an accepted no-op.
func (h *ReservationHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req patchReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	wantDates := req.StartDate != "" || req.EndDate != ""
	wantStatus := strings.TrimSpace(req.Status) != ""
	if !wantDates && !wantStatus {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}

	ctx := c.Request().Context()
	tx, err := h.Assets.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if res.UserID != uid && c.Get("role") != model.RoleAdmin {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	asset, err := h.Assets.GetForUpdateTx(ctx, tx, res.AssetID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if wantDates {
		if res.Status != model.ReservationActive {
			return c.JSON(http.StatusConflict, echo.Map{"error": "only active reservations can be rescheduled"})
		}
		// An omitted bound keeps its stored value, so either date can
		// be moved on its own.
		startStr, endStr := req.StartDate, req.EndDate
		if startStr == "" {
			startStr = booking.FormatDate(res.StartDate)
		}
		if endStr == "" {
			endStr = booking.FormatDate(res.EndDate)
		}
		start, err := booking.ParseDate(startStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
		}
		end, err := booking.ParseDate(endStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
		}
		if err := booking.ValidateRange(start, end); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be before end_date"})
		}
		used, err := h.Reservations.SumOverlappingQtyTx(ctx, tx, res.AssetID, start, end, res.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if err := booking.CheckCapacity(res.AssetID, asset.TotalStock, used, res.Quantity); err != nil {
			return c.JSON(checkoutErrStatus(err), echo.Map{"error": err.Error()})
		}
		total := booking.Cost(asset.DailyRateCents, res.Quantity, start, end)
		if err := h.Reservations.UpdateDatesTx(ctx, tx, res.ID, start, end, total); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update reservation failed"})
		}
		res.StartDate, res.EndDate, res.TotalCents = start, end, total
	}

	if wantStatus {
		next := strings.ToUpper(strings.TrimSpace(req.Status))
		delta, err := booking.StockDelta(res.Status, next, res.Quantity)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be ACTIVE or RETURNED"})
		}
		switch {
		case delta > 0:
			if err := h.Assets.IncrementStockTx(ctx, tx, res.AssetID, delta); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "restore stock failed"})
			}
		case delta < 0:
			if err := h.Assets.DecrementStockTx(ctx, tx, res.AssetID, -delta); err != nil {
				return c.JSON(checkoutErrStatus(err), echo.Map{"error": err.Error()})
			}
		}
		if next != res.Status {
			if err := h.Reservations.UpdateStatusTx(ctx, tx, res.ID, next); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update reservation failed"})
			}
			res.Status = next
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true
	return c.JSON(http.StatusOK, toReservationResp(res))
}

// Delete handles DELETE /v1/reservations/:id. An ACTIVE reservation
// gets its units back before the row goes; a RETURNED one already
// gave them back, so the delete is pure bookkeeping.
func (h *ReservationHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx := c.Request().Context()
	tx, err := h.Assets.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if res.UserID != uid && c.Get("role") != model.RoleAdmin {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	if res.Status == model.ReservationActive {
		if _, err := h.Assets.GetForUpdateTx(ctx, tx, res.AssetID); err == nil {
			if err := h.Assets.IncrementStockTx(ctx, tx, res.AssetID, res.Quantity); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "restore stock failed"})
			}
		} else if err != repository.ErrAssetNotFound {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	if err := h.Reservations.DeleteTx(ctx, tx, res.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete reservation failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}
