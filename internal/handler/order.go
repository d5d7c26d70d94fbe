package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/srvk/hardware-rental/internal/repository"
)

// OrderHandler serves order history.
type OrderHandler struct {
	Orders       *repository.OrderRepo
	Reservations *repository.ReservationRepo
}

func NewOrderHandler(o *repository.OrderRepo, r *repository.ReservationRepo) *OrderHandler {
	if o == nil || r == nil {
		panic("nil repository passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: o, Reservations: r}
}

type orderResp struct {
	repository.OrderDetail
	Reservations []reservationResp `json:"reservations"`
}

// List handles GET /v1/orders: the caller's orders newest first,
// each with its product lines and any rentals the checkout created.
func (h *OrderHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	details, err := h.Orders.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]orderResp, 0, len(details))
	index := make(map[uint64]int, len(details))
	for _, d := range details {
		index[d.ID] = len(out)
		out = append(out, orderResp{OrderDetail: d, Reservations: []reservationResp{}})
	}
	linked, err := h.Reservations.ListByOrderIDs(ctx, repository.OrderIDs(details))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	for _, r := range linked {
		if r.OrderID == nil {
			continue
		}
		if i, ok := index[*r.OrderID]; ok {
			out[i].Reservations = append(out[i].Reservations, toReservationResp(r))
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": out})
}
